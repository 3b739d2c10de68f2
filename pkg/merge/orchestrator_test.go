package merge

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/docmerge/pkg/cellval"
	"github.com/go-go-golems/docmerge/pkg/config"
	"github.com/go-go-golems/docmerge/pkg/mapping"
)

func testEnv() RunContext {
	return RunContext{
		UserEmail:        "ops@example.com",
		Now:              func() time.Time { return time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC) },
		Location:         time.UTC,
		FormulaSeparator: ";",
	}
}

type scenario struct {
	config *fakeTable
	data   *fakeTable
	docs   *fakeDocs
	folder *fakeFolder
	orch   *Orchestrator
}

// newScenario builds a workbook with one configured dataset "Students" that
// maps column 2 onto <<NAME>> in the "letter.txt" template.
func newScenario(dataRows ...[]cellval.Value) *scenario {
	s := &scenario{
		config: &fakeTable{name: "Config"},
		data:   &fakeTable{name: "Students"},
		docs:   &fakeDocs{templates: map[string]string{"letter.txt": "Hello <<NAME>>, welcome."}},
		folder: &fakeFolder{},
	}
	s.config.grid = [][]cellval.Value{
		row("Dataset", "Template", "Mapping", "Destination"),
		row("Students", "letter.txt", `{"2": "<<NAME>>"}`, "out"),
	}
	s.data.grid = append(
		[][]cellval.Value{row("ID", "Name", "Merged Doc ID", "Merged Doc URL", "Merged Doc Link", "Merge Status")},
		dataRows...,
	)
	s.orch = &Orchestrator{
		Tables:      &fakeStore{tables: map[string]*fakeTable{"Config": s.config, "Students": s.data}},
		Docs:        s.docs,
		Files:       &fakeFiles{folders: map[string]*fakeFolder{"out": s.folder}},
		Env:         testEnv(),
		ConfigSheet: "Config",
	}
	return s
}

func TestProcessMergesPendingRow(t *testing.T) {
	s := newScenario(row("s-1", "Ana"))

	report, err := s.orch.Process(context.Background(), "Students")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	require.Len(t, s.folder.stored, 1)
	assert.Contains(t, s.folder.stored[0].body, "Hello Ana, welcome.")
	assert.True(t, s.folder.stored[0].shared)

	assert.Equal(t, "id-1", s.data.cell(2, 3))
	assert.Equal(t, "file:///out/Students -  - ", s.data.cell(2, 4))
	assert.Equal(t,
		`HYPERLINK("file:///out/Students -  - ";"Students -  - ")`,
		s.data.cell(2, 5))
	assert.Equal(t, "Merged OK | ops@example.com | 2024-09-01 10:30:00", s.data.cell(2, 6))

	// the transient working copy is released once the row is done
	assert.Len(t, s.docs.deleted, 1)
	assert.Equal(t, 1, s.data.flushes)
}

func TestProcessSkipsAlreadyMergedRows(t *testing.T) {
	s := newScenario(row("s-1", "Ana"))

	first, err := s.orch.Process(context.Background(), "Students")
	require.NoError(t, err)
	require.Equal(t, 1, first.Processed)

	// a second run finds the identifier cell populated and does nothing
	second, err := s.orch.Process(context.Background(), "Students")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, s.folder.stored, 1)
	assert.Len(t, s.docs.duplicated, 1)
	require.Len(t, second.Rows, 1)
	assert.Equal(t, RowSkipped, second.Rows[0].State)
}

func TestProcessIsolatesRowFailures(t *testing.T) {
	s := newScenario(row("s-1", "Ana"), row("s-2", "Luis"), row("s-3", "Mar"))
	s.docs.failDuplicateAt = 2

	var seen []RowState
	s.orch.OnRow = func(r RowResult) { seen = append(seen, r.State) }

	report, err := s.orch.Process(context.Background(), "Students")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []RowState{RowCompleted, RowFailed, RowCompleted}, seen)

	// the failed row carries only a status message; the identifier stays
	// empty so the next run retries it
	assert.Empty(t, s.data.cell(3, 3))
	assert.Empty(t, s.data.cell(3, 4))
	assert.Empty(t, s.data.cell(3, 5))
	status := s.data.cell(3, 6)
	assert.True(t, strings.HasPrefix(status, "Error: "), status)
	assert.Contains(t, status, "letter.txt")

	// neighbours are untouched by the failure
	assert.Equal(t, "id-1", s.data.cell(2, 3))
	assert.Equal(t, "id-2", s.data.cell(4, 3))
	assert.Equal(t, 3, s.data.flushes)
}

func TestProcessFilenameFromCodeAndYear(t *testing.T) {
	s := newScenario()
	s.config.grid[1] = row("Enrollment", "letter.txt", `{"1": "<<NAME>>"}`, "out")
	enrollment := &fakeTable{name: "Enrollment", grid: [][]cellval.Value{
		row("CODIGO", "AÑO", "Merged Doc ID", "Merged Doc URL", "Merged Doc Link", "Merge Status"),
		row("A123", "2024-06-01"),
	}}
	s.orch.Tables = &fakeStore{tables: map[string]*fakeTable{"Config": s.config, "Enrollment": enrollment}}

	report, err := s.orch.Process(context.Background(), "Enrollment")
	require.NoError(t, err)
	require.Equal(t, 1, report.Processed)
	require.Len(t, s.folder.stored, 1)
	assert.Equal(t, "Enrollment - A123 - 2024", s.folder.stored[0].filename)
	assert.Equal(t, "Enrollment - A123 - 2024", report.Rows[0].Filename)
}

func TestProcessIgnoresOutOfRangeMappingColumns(t *testing.T) {
	s := newScenario(row("s-1", "Ana"))
	s.config.grid[1] = row("Students", "letter.txt", `{"2": "<<NAME>>", "99": "<<GHOST>>"}`, "out")

	report, err := s.orch.Process(context.Background(), "Students")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Contains(t, s.folder.stored[0].body, "Hello Ana")
}

func TestProcessUnknownDataset(t *testing.T) {
	s := newScenario()
	_, err := s.orch.Process(context.Background(), "Nope")
	require.ErrorIs(t, err, config.ErrNotFound)
}

func TestProcessMissingDataSheet(t *testing.T) {
	s := newScenario()
	s.config.grid[1] = row("Students", "letter.txt", `{"2": "<<NAME>>"}`, "out")
	s.orch.Tables = &fakeStore{tables: map[string]*fakeTable{"Config": s.config}}

	_, err := s.orch.Process(context.Background(), "Students")
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestProcessBadMapping(t *testing.T) {
	s := newScenario(row("s-1", "Ana"))
	s.config.grid[1] = row("Students", "letter.txt", "not a mapping", "out")

	_, err := s.orch.Process(context.Background(), "Students")
	require.Error(t, err)
	var perr *mapping.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "not a mapping")
	// pre-flight failure means no row was touched
	assert.Empty(t, s.docs.duplicated)
	assert.Equal(t, 0, s.data.flushes)
}

func TestProcessMissingOutputColumns(t *testing.T) {
	s := newScenario()
	s.data.grid = [][]cellval.Value{
		row("ID", "Name"),
		row("s-1", "Ana"),
	}

	_, err := s.orch.Process(context.Background(), "Students")
	var merr *MissingColumnsError
	require.ErrorAs(t, err, &merr)
	assert.Empty(t, s.docs.duplicated)
}

func TestProcessInvalidDestination(t *testing.T) {
	s := newScenario(row("s-1", "Ana"))
	s.config.grid[1] = row("Students", "letter.txt", `{"2": "<<NAME>>"}`, "nowhere")

	_, err := s.orch.Process(context.Background(), "Students")
	require.ErrorIs(t, err, ErrInvalidDestination)
}

func TestProcessHonorsContextCancellation(t *testing.T) {
	s := newScenario(row("s-1", "Ana"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := s.orch.Process(ctx, "Students")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Processed)
}

func TestHyperlinkFormulaSeparator(t *testing.T) {
	o := &Orchestrator{Env: testEnv()}
	assert.Equal(t, `HYPERLINK("u";"l")`, o.hyperlinkFormula("u", "l"))

	o.Env.FormulaSeparator = ","
	assert.Equal(t, `HYPERLINK("u","l")`, o.hyperlinkFormula("u", "l"))

	o.Env.FormulaSeparator = ""
	assert.Equal(t, `HYPERLINK("u";"l")`, o.hyperlinkFormula("u", "l"))
}

func TestRowProcessorWrapsFailuresAsRenderError(t *testing.T) {
	docs := &fakeDocs{templates: map[string]string{}}
	p := &RowProcessor{
		Docs:        docs,
		Folder:      &fakeFolder{},
		Dataset:     "Students",
		TemplateRef: "letter.txt",
		Mapping:     mapping.ColumnMapping{2: "<<NAME>>"},
	}
	_, err := p.Process(7, row("s-1", "Ana"), &Columns{DocID: 3, DocURL: 4, DocLink: 5, Status: 6})
	require.Error(t, err)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 7, re.Row)
	assert.Contains(t, re.Detail(), "letter.txt")
}

func TestRowProcessorSubstitutesDateValues(t *testing.T) {
	docs := &fakeDocs{templates: map[string]string{"letter.txt": "Issued on <<DATE>>."}}
	folder := &fakeFolder{}
	p := &RowProcessor{
		Docs:        docs,
		Folder:      folder,
		Dataset:     "Students",
		TemplateRef: "letter.txt",
		Mapping:     mapping.ColumnMapping{1: "<<DATE>>"},
	}
	_, err := p.Process(2, row("03/15/2024"), &Columns{DocID: 2, DocURL: 3, DocLink: 4, Status: 5})
	require.NoError(t, err)
	require.Len(t, folder.stored, 1)
	assert.Contains(t, folder.stored[0].body, "Issued on 2024-03-15.")
}
