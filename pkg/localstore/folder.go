package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/docmerge/pkg/merge"
)

// Store is a file store over local directories. Destination references are
// directory paths; stored documents get an opaque UUID identifier and a
// file:// URL.
type Store struct{}

// ResolveFolder checks that ref names an existing directory. Anything else
// wraps merge.ErrInvalidDestination so pre-flight can abort the run.
func (Store) ResolveFolder(ref string) (merge.Folder, error) {
	info, err := os.Stat(ref)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("destination %q: %w", ref, merge.ErrInvalidDestination)
	}
	return &Folder{dir: ref}, nil
}

var _ merge.FileStore = Store{}

// Folder stores rendered PDFs inside one directory.
type Folder struct {
	dir string
}

// Store writes blob as "<filename>.pdf". Files are created private; sharing
// is widened explicitly through SetPublicViewable.
func (f *Folder) Store(blob []byte, filename string) (merge.StoredFile, error) {
	path := filepath.Join(f.dir, sanitizeFilename(filename)+".pdf")
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	log.Debug().Str("path", abs).Int("bytes", len(blob)).Msg("stored rendered document")
	return &File{id: uuid.NewString(), path: abs}, nil
}

// File is one stored document.
type File struct {
	id   string
	path string
}

func (f *File) ID() string { return f.id }

func (f *File) URL() string {
	return "file://" + filepath.ToSlash(f.path)
}

// SetPublicViewable makes the document world-readable, the local equivalent
// of "anyone with the link may view".
func (f *File) SetPublicViewable() error {
	if err := os.Chmod(f.path, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", f.path, err)
	}
	return nil
}

// sanitizeFilename keeps display names from escaping the destination folder
// or tripping over the filesystem.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", string(os.PathSeparator), "_", "\x00", "")
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}
