package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"test1", "Test1", 1},
		{"Artifact", "Artifact", 0},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestSuggest(t *testing.T) {
	classes := []string{"Test1", "Artifact", "TestComponent", "BDOTest"}

	assert.Equal(t, []string{"Test1"}, Suggest("Tset1", classes))
	assert.Equal(t, []string{"Artifact"}, Suggest("artifact", classes))
	assert.Empty(t, Suggest("Session", classes))
}

func TestFormatError(t *testing.T) {
	out := FormatError(ErrorOptions{
		Context:     "unknown class",
		Problem:     "Tset1",
		Suggestions: []string{"Test1"},
		Hints:       []string{"List classes: bdo models"},
		NoColor:     true,
	})
	assert.Equal(t, "ERROR UNKNOWN CLASS: Tset1\n   Did you mean: Test1?\n   > List classes: bdo models\n", out)

	warn := FormatError(ErrorOptions{Level: ErrorLevelWarning, Problem: "careful", NoColor: true})
	assert.Equal(t, "WARNING careful\n", warn)

	assert.Contains(t, ConfigError(errors.New("log.level must be one of"), true), "CONFIGURATION ERROR: log.level")
	assert.Contains(t, UnknownClassError("Artefact", []string{"Artifact"}, true), "Did you mean: Artifact?")
	assert.Equal(t, "OK saved", FormatSuccess("saved", true))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "CLASS", "COLLECTION")
	table.AddRow("Test1", "Test1")
	table.AddRow("Artifact")
	table.Render()

	assert.Equal(t, "CLASS     COLLECTION\n--------  ----------\nTest1     Test1\nArtifact\n", buf.String())
}
