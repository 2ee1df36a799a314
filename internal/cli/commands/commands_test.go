package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabbuilder/pkg/db"
)

func TestNewBuildCommand(t *testing.T) {
	cmd := NewBuildCommand()

	assert.Equal(t, "build", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{
		"input", "output", "exclude", "organize-excludes", "number", "dictionary",
		"method", "order", "from", "to", "pos", "nlp-engine", "nlp-url", "nlp-model",
		"argos-url", "argos-api-key", "cache", "workers",
	}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	for short, long := range map[string]string{"i": "input", "o": "output", "e": "exclude", "n": "number", "d": "dictionary", "m": "method"} {
		f := cmd.Flags().ShorthandLookup(short)
		require.NotNil(t, f, short)
		assert.Equal(t, long, f.Name)
	}
}

func TestBuildWithoutConfig(t *testing.T) {
	cmd := NewBuildCommand()
	cmd.SetArgs([]string{"-i", "text.txt"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	err := cmd.Execute()
	require.ErrorIs(t, err, errNoConfig)
}

func TestNewOrganizeCommand(t *testing.T) {
	cmd := NewOrganizeCommand()

	assert.Equal(t, "organize <file>", cmd.Use)
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"known.txt"}))
}

func TestNewRunsCommand(t *testing.T) {
	cmd := NewRunsCommand()

	assert.Equal(t, "runs [id]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("cache"))
	assert.NotNil(t, cmd.Flags().Lookup("limit"))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}))
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	printRuns(&buf, nil)
	assert.Equal(t, "No runs recorded.\n", buf.String())

	started := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	buf.Reset()
	printRuns(&buf, []db.Run{{ID: "r1", Method: "append", Status: db.RunFinished, Lemmas: 12, Translated: 10, Input: "a.txt", StartedAt: started}})
	out := buf.String()
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "2024-05-01 10:30:00")
	assert.Contains(t, out, "append")
	assert.Contains(t, out, "│")
	assert.Contains(t, out, "(1 runs)")
}

func TestPrintRun(t *testing.T) {
	started := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	finished := started.Add(time.Minute)

	var buf bytes.Buffer
	printRun(&buf, db.Run{ID: "r1", Status: db.RunFailed, Lemmas: 3, Excluded: 1, StartedAt: started, FinishedAt: &finished, Error: "boom"})
	out := buf.String()
	assert.Contains(t, out, "Lemmas:       3 (1 excluded)")
	assert.Contains(t, out, "Finished:     2024-05-01 10:31:00")
	assert.Contains(t, out, "Error:        boom")
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "vocabbuilder v1.2.3\n", buf.String())
}
