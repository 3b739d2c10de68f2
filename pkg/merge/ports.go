package merge

import (
	"time"

	"github.com/go-go-golems/docmerge/pkg/cellval"
)

// Table is a named grid of cells with per-cell write-back. Rows returns the
// full table including the header row; coordinates are 1-based.
type Table interface {
	Name() string
	Rows() ([][]cellval.Value, error)
	WriteCell(row, col int, value string) error
	WriteFormula(row, col int, formula string) error
	// Flush commits pending writes to the backing store. The orchestrator
	// calls it after every row so an interrupted run loses at most one row.
	Flush() error
}

// TableStore resolves tables by name. A missing table surfaces as an error
// wrapping ErrTableNotFound.
type TableStore interface {
	Table(name string) (Table, error)
}

// DocumentHandle is a transient working copy of a template, owned by the row
// processor from Duplicate until Delete.
type DocumentHandle interface {
	ReplaceAll(token, value string) error
	Commit() error
	ExportPDF() ([]byte, error)
	Delete() error
}

// TemplateStore duplicates templates into transient working documents.
type TemplateStore interface {
	Duplicate(templateRef, transientName string) (DocumentHandle, error)
}

// StoredFile is a rendered document persisted at its destination.
type StoredFile interface {
	ID() string
	URL() string
	SetPublicViewable() error
}

// Folder stores rendered document blobs under a display filename.
type Folder interface {
	Store(blob []byte, filename string) (StoredFile, error)
}

// FileStore resolves destination references. An unusable reference surfaces
// as an error wrapping ErrInvalidDestination.
type FileStore interface {
	ResolveFolder(ref string) (Folder, error)
}

// RunContext carries the ambient facts of a run (who is merging, what time
// it is, which locale conventions the write-back formula uses) so the
// orchestrator never reads global state.
type RunContext struct {
	UserEmail        string
	Now              func() time.Time
	Location         *time.Location
	FormulaSeparator string
}

// Timestamp formats the current time for the status cell.
func (rc RunContext) Timestamp() string {
	now := rc.Now()
	if rc.Location != nil {
		now = now.In(rc.Location)
	}
	return now.Format("2006-01-02 15:04:05")
}
