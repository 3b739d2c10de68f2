package cellval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmpty(t *testing.T) {
	assert.Equal(t, KindEmpty, Classify("").Kind)
	assert.Equal(t, KindEmpty, Classify("   ").Kind)
	assert.True(t, Classify("").IsEmpty())
}

func TestClassifyNumber(t *testing.T) {
	v := Classify("42.5")
	assert.Equal(t, KindNumber, v.Kind)
	assert.Equal(t, "42.5", v.String())

	// bare numerals stay numeric, never become years
	assert.Equal(t, KindNumber, Classify("2024").Kind)
	// leading zeros survive untouched
	assert.Equal(t, "007", Classify("007").String())
}

func TestClassifyDate(t *testing.T) {
	v := Classify("2024-03-15")
	assert.Equal(t, KindDate, v.Kind)
	assert.Equal(t, "2024-03-15", v.String())

	v = Classify("03/15/2024")
	assert.Equal(t, KindDate, v.Kind)
	assert.Equal(t, "2024-03-15", v.String())
}

func TestClassifyText(t *testing.T) {
	v := Classify("Ana")
	assert.Equal(t, KindText, v.Kind)
	assert.Equal(t, "Ana", v.String())
}

func TestYearString(t *testing.T) {
	d := FromTime(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024", d.YearString())
	assert.Equal(t, "2024-07-01", d.String())

	assert.Equal(t, "A123", Classify("A123").YearString())
	assert.Equal(t, "", Classify("").YearString())
}
