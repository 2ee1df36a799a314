package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/japaniel/vocabbuilder/internal/testutil"
)

func TestOptionsValidate(t *testing.T) {
	input := testutil.WriteFile(t, "in.txt", "Der Arzt kommt an.\n")
	dict := testutil.WriteFile(t, "dict.txt", "Arzt {m}\tdoctor\tnoun\n")

	valid := Options{
		Input:        input,
		Output:       "out.txt",
		Method:       MethodDictCC,
		Dictionaries: []string{dict},
		Number:       2,
		From:         "de",
		To:           "en",
	}

	tests := []struct {
		name   string
		modify func(o *Options)
		err    error
	}{
		{"valid", func(o *Options) {}, nil},
		{"unknown method", func(o *Options) { o.Method = "deepl" }, ErrInvalidOptions},
		{"no input", func(o *Options) { o.Input = "" }, ErrInvalidOptions},
		{"no output", func(o *Options) { o.Output = " " }, ErrInvalidOptions},
		{"zero number", func(o *Options) { o.Number = 0 }, ErrInvalidOptions},
		{"no language", func(o *Options) { o.To = "" }, ErrInvalidOptions},
		{"missing input", func(o *Options) { o.Input = "nope.txt" }, ErrFileNotFound},
		{"missing dictionary", func(o *Options) { o.Dictionaries = []string{"nope.txt"} }, ErrFileNotFound},
		{"no dictionary", func(o *Options) { o.Dictionaries = nil }, ErrInvalidOptions},
		{"missing exclude", func(o *Options) { o.Exclude = "nope.txt" }, ErrFileNotFound},
		{"argos ignores dictionaries", func(o *Options) {
			o.Method = MethodArgos
			o.Dictionaries = []string{"nope.txt"}
		}, nil},
		{"bad order", func(o *Options) {
			o.Method = MethodCoalesce
			o.Order = []string{"dictcc", "google"}
		}, ErrInvalidOptions},
		{"duplicate order", func(o *Options) {
			o.Method = MethodAppend
			o.Order = []string{"argos", "argos"}
		}, ErrInvalidOptions},
		{"order ignored for dictcc", func(o *Options) { o.Order = []string{"google"} }, nil},
		{"directory as input", func(o *Options) { o.Input = t.TempDir() }, ErrFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.modify(&o)
			err := o.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, IsUsageError(err))
		})
	}
}
