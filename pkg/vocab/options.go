// Package vocab builds a translated vocabulary list from a text: it extracts
// lemmas, drops excluded words, translates the rest and writes a sorted,
// sectioned file.
package vocab

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Method selects how translation sources are combined.
type Method string

const (
	MethodDictCC   Method = "dictcc"
	MethodArgos    Method = "argos"
	MethodCoalesce Method = "coalesce"
	MethodAppend   Method = "append"
)

// Methods lists the accepted methods.
var Methods = []Method{MethodDictCC, MethodArgos, MethodCoalesce, MethodAppend}

// Source names usable in Options.Order.
const (
	SourceDictCC = "dictcc"
	SourceArgos  = "argos"
)

// DefaultOrder is the source precedence for coalesce and append.
var DefaultOrder = []string{SourceDictCC, SourceArgos}

var (
	// ErrFileNotFound is returned when an input, dictionary or exclusion file
	// does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidOptions is returned for empty or unknown option values.
	ErrInvalidOptions = errors.New("invalid options")
)

// Options configure one build.
type Options struct {
	Input            string
	Output           string
	Exclude          string
	OrganizeExcludes bool

	Method       Method
	Order        []string
	Dictionaries []string
	Number       int

	From string
	To   string
	POS  []string

	Workers int
}

// Validate checks values and file existence. It never starts any work.
func (o Options) Validate() error {
	if !slices.Contains(Methods, o.Method) {
		return fmt.Errorf("%w: unknown method %q", ErrInvalidOptions, o.Method)
	}
	if strings.TrimSpace(o.Input) == "" {
		return fmt.Errorf("%w: input is required", ErrInvalidOptions)
	}
	if strings.TrimSpace(o.Output) == "" {
		return fmt.Errorf("%w: output is required", ErrInvalidOptions)
	}
	if o.Number < 1 {
		return fmt.Errorf("%w: number must be positive, got %d", ErrInvalidOptions, o.Number)
	}
	if o.From == "" || o.To == "" {
		return fmt.Errorf("%w: source and target language are required", ErrInvalidOptions)
	}

	order := o.order()
	for i, name := range order {
		if name != SourceDictCC && name != SourceArgos {
			return fmt.Errorf("%w: unknown source %q in order", ErrInvalidOptions, name)
		}
		if slices.Contains(order[:i], name) {
			return fmt.Errorf("%w: source %q listed twice in order", ErrInvalidOptions, name)
		}
	}
	if slices.Contains(order, SourceDictCC) && len(o.Dictionaries) == 0 {
		return fmt.Errorf("%w: method %s needs a dictionary", ErrInvalidOptions, o.Method)
	}

	files := []string{o.Input}
	if slices.Contains(order, SourceDictCC) {
		files = append(files, o.Dictionaries...)
	}
	if o.Exclude != "" {
		files = append(files, o.Exclude)
	}
	for _, f := range files {
		if err := checkFile(f); err != nil {
			return err
		}
	}
	return nil
}

// order returns the source names the method uses, in precedence order.
func (o Options) order() []string {
	switch o.Method {
	case MethodDictCC:
		return []string{SourceDictCC}
	case MethodArgos:
		return []string{SourceArgos}
	}
	if len(o.Order) == 0 {
		return DefaultOrder
	}
	return o.Order
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	return nil
}
