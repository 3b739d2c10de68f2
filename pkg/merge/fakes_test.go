package merge

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/docmerge/pkg/cellval"
)

// In-memory collaborators used by the orchestrator and row processor tests.

type fakeTable struct {
	name    string
	grid    [][]cellval.Value
	flushes int
}

func (t *fakeTable) Name() string { return t.name }

func (t *fakeTable) Rows() ([][]cellval.Value, error) {
	return t.grid, nil
}

func (t *fakeTable) WriteCell(row, col int, value string) error {
	t.set(row, col, cellval.Classify(value))
	return nil
}

func (t *fakeTable) WriteFormula(row, col int, formula string) error {
	t.set(row, col, cellval.Value{Kind: cellval.KindText, Raw: formula})
	return nil
}

func (t *fakeTable) Flush() error {
	t.flushes++
	return nil
}

func (t *fakeTable) set(row, col int, v cellval.Value) {
	for len(t.grid) < row {
		t.grid = append(t.grid, nil)
	}
	cells := t.grid[row-1]
	for len(cells) < col {
		cells = append(cells, cellval.Value{})
	}
	cells[col-1] = v
	t.grid[row-1] = cells
}

func (t *fakeTable) cell(row, col int) string {
	if row > len(t.grid) {
		return ""
	}
	cells := t.grid[row-1]
	if col > len(cells) {
		return ""
	}
	return cells[col-1].Raw
}

type fakeStore struct {
	tables map[string]*fakeTable
}

func (s *fakeStore) Table(name string) (Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", name, ErrTableNotFound)
	}
	return t, nil
}

type fakeDocs struct {
	templates  map[string]string
	duplicated []string
	deleted    []string
	// failDuplicateAt fails the n-th Duplicate call (1-based); 0 disables.
	failDuplicateAt int
}

func (d *fakeDocs) Duplicate(templateRef, transientName string) (DocumentHandle, error) {
	d.duplicated = append(d.duplicated, transientName)
	if d.failDuplicateAt > 0 && len(d.duplicated) == d.failDuplicateAt {
		return nil, fmt.Errorf("template %q is gone", templateRef)
	}
	body, ok := d.templates[templateRef]
	if !ok {
		return nil, fmt.Errorf("template %q is gone", templateRef)
	}
	return &fakeDoc{docs: d, name: transientName, body: body}, nil
}

type fakeDoc struct {
	docs      *fakeDocs
	name      string
	body      string
	committed bool
}

func (d *fakeDoc) ReplaceAll(token, value string) error {
	d.body = strings.ReplaceAll(d.body, token, value)
	return nil
}

func (d *fakeDoc) Commit() error {
	d.committed = true
	return nil
}

func (d *fakeDoc) ExportPDF() ([]byte, error) {
	return []byte("%PDF " + d.body), nil
}

func (d *fakeDoc) Delete() error {
	d.docs.deleted = append(d.docs.deleted, d.name)
	return nil
}

type storedBlob struct {
	filename string
	body     string
	shared   bool
}

type fakeFolder struct {
	stored []*storedBlob
}

func (f *fakeFolder) Store(blob []byte, filename string) (StoredFile, error) {
	b := &storedBlob{filename: filename, body: string(blob)}
	f.stored = append(f.stored, b)
	return &fakeFile{
		id:   fmt.Sprintf("id-%d", len(f.stored)),
		url:  "file:///out/" + filename,
		blob: b,
	}, nil
}

type fakeFile struct {
	id, url string
	blob    *storedBlob
}

func (f *fakeFile) ID() string  { return f.id }
func (f *fakeFile) URL() string { return f.url }
func (f *fakeFile) SetPublicViewable() error {
	f.blob.shared = true
	return nil
}

type fakeFiles struct {
	folders map[string]*fakeFolder
}

func (s *fakeFiles) ResolveFolder(ref string) (Folder, error) {
	f, ok := s.folders[ref]
	if !ok {
		return nil, fmt.Errorf("destination %q: %w", ref, ErrInvalidDestination)
	}
	return f, nil
}

func row(cells ...string) []cellval.Value {
	out := make([]cellval.Value, len(cells))
	for i, c := range cells {
		out[i] = cellval.Classify(c)
	}
	return out
}
