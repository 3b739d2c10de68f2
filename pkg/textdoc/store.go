package textdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/docmerge/pkg/merge"
)

// Store is a template store over UTF-8 text templates on disk. Duplicating a
// template creates a transient working file under WorkDir that lives until
// the row processor releases it.
type Store struct {
	WorkDir string
}

// NewStore builds a store; an empty workDir falls back to the system temp
// directory.
func NewStore(workDir string) *Store {
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Store{WorkDir: workDir}
}

// Duplicate copies the template into a transient working document named
// after transientName (which carries dataset, row and a UUID, so orphans
// left by failed rows are identifiable).
func (s *Store) Duplicate(templateRef, transientName string) (merge.DocumentHandle, error) {
	body, err := os.ReadFile(templateRef)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", templateRef, err)
	}
	ext := filepath.Ext(templateRef)
	if ext == "" {
		ext = ".txt"
	}
	path := filepath.Join(s.WorkDir, sanitize(transientName)+ext)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return nil, fmt.Errorf("create working document %s: %w", path, err)
	}
	log.Debug().Str("template", templateRef).Str("working", path).Msg("duplicated template")
	return &Document{path: path, title: transientName, body: string(body)}, nil
}

var _ merge.TemplateStore = &Store{}

// Document is a transient working copy of a template. Replacements happen in
// memory; Commit persists them to the working file.
type Document struct {
	path  string
	title string
	body  string
}

// ReplaceAll substitutes every literal occurrence of token with value.
func (d *Document) ReplaceAll(token, value string) error {
	d.body = strings.ReplaceAll(d.body, token, value)
	return nil
}

// Commit writes the substituted body back to the working file.
func (d *Document) Commit() error {
	if err := os.WriteFile(d.path, []byte(d.body), 0o600); err != nil {
		return fmt.Errorf("commit working document %s: %w", d.path, err)
	}
	return nil
}

// ExportPDF renders the working document's text to a PDF and verifies the
// produced bytes parse as a well-formed document.
func (d *Document) ExportPDF() ([]byte, error) {
	blob, err := renderPDF(d.title, d.body)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", d.path, err)
	}
	if err := verifyPDF(blob); err != nil {
		return nil, fmt.Errorf("verify %s: %w", d.path, err)
	}
	return blob, nil
}

// Delete removes the working file.
func (d *Document) Delete() error {
	if err := os.Remove(d.path); err != nil {
		return fmt.Errorf("delete working document %s: %w", d.path, err)
	}
	return nil
}

// Path returns the working file's location, mainly for tests and cleanup.
func (d *Document) Path() string { return d.path }

func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "\x00", "")
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "working"
	}
	return cleaned
}
