package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrictJSON(t *testing.T) {
	cm, strategy, err := ParseDetailed(`{"2": "<<NAME>>", "5": "<<DATE>>"}`)
	require.NoError(t, err)
	assert.Equal(t, StrategyStrict, strategy)
	assert.Equal(t, ColumnMapping{2: "<<NAME>>", 5: "<<DATE>>"}, cm)
}

func TestParseSingleQuoted(t *testing.T) {
	cm, strategy, err := ParseDetailed(`{'2': '<<NAME>>'}`)
	require.NoError(t, err)
	assert.Equal(t, StrategyRequoted, strategy)
	assert.Equal(t, ColumnMapping{2: "<<NAME>>"}, cm)
}

func TestParseCurlyQuotes(t *testing.T) {
	// spreadsheet UIs rewrite straight quotes into typographic ones
	cm, strategy, err := ParseDetailed(`{“3”: “<<CITY>>”}`)
	require.NoError(t, err)
	assert.Equal(t, StrategyStrict, strategy)
	assert.Equal(t, ColumnMapping{3: "<<CITY>>"}, cm)
}

func TestParseCurlySingleQuotes(t *testing.T) {
	cm, strategy, err := ParseDetailed(`{‘3’: ‘<<CITY>>’}`)
	require.NoError(t, err)
	assert.Equal(t, StrategyRequoted, strategy)
	assert.Equal(t, ColumnMapping{3: "<<CITY>>"}, cm)
}

func TestParseSurroundingWhitespace(t *testing.T) {
	cm, err := Parse("  {\"1\": \"<<ID>>\"}\n")
	require.NoError(t, err)
	assert.Equal(t, ColumnMapping{1: "<<ID>>"}, cm)
}

func TestParseKeyWhitespace(t *testing.T) {
	cm, err := Parse(`{" 4 ": "<<X>>"}`)
	require.NoError(t, err)
	assert.Equal(t, ColumnMapping{4: "<<X>>"}, cm)
}

func TestParseMalformedEchoesRaw(t *testing.T) {
	raw := `{"2": "<<NAME>>",}`
	_, err := Parse(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), raw)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, raw, perr.Raw)
}

func TestParseUnbalancedBraces(t *testing.T) {
	raw := `{"2": "<<NAME>>"`
	_, err := Parse(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), raw)
}

func TestParseNonIntegerKey(t *testing.T) {
	raw := `{"two": "<<NAME>>"}`
	_, err := Parse(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), raw)
	assert.Contains(t, err.Error(), `"two"`)
}

func TestParseNonPositiveKey(t *testing.T) {
	_, err := Parse(`{"0": "<<NAME>>"}`)
	require.Error(t, err)
	_, err = Parse(`{"-3": "<<NAME>>"}`)
	require.Error(t, err)
}

func TestParseApostropheCorruption(t *testing.T) {
	// The requote step is unconditional: an apostrophe inside a value is
	// rewritten too, which breaks the JSON. Documented limitation.
	_, err := Parse(`{'2': 'O'Brien'}`)
	require.Error(t, err)
}

func TestParseEmptyString(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
}

func TestColumnsSorted(t *testing.T) {
	cm := ColumnMapping{7: "c", 1: "a", 3: "b"}
	assert.Equal(t, []int{1, 3, 7}, cm.Columns())
}
