package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Writer renders a report.
type Writer interface {
	Write(r *Report) error
}

// WriterOptions contains configuration for writers
type WriterOptions struct {
	// Out is where output is written (defaults to os.Stdout)
	Out io.Writer
	// Compact disables JSON indentation. YAML is always block style
	// with a two-space indent.
	Compact bool
	// Top limits the ranked rows of the text table; zero means all
	Top int
}

// NewWriter creates a writer for the given format.
func NewWriter(format string, opts *WriterOptions) (Writer, error) {
	if opts == nil {
		opts = &WriterOptions{}
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		return &jsonWriter{opts: opts}, nil
	case FormatYAML:
		return &yamlWriter{opts: opts}, nil
	case FormatText, "":
		return &textWriter{opts: opts, styles: defaultStyles()}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
	}
}

type jsonWriter struct {
	opts *WriterOptions
}

func (w *jsonWriter) Write(r *Report) error {
	encoder := json.NewEncoder(w.opts.Out)
	if !w.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(r)
}

type yamlWriter struct {
	opts *WriterOptions
}

func (w *yamlWriter) Write(r *Report) error {
	encoder := yaml.NewEncoder(w.opts.Out)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

var (
	_ Writer = (*jsonWriter)(nil)
	_ Writer = (*yamlWriter)(nil)
	_ Writer = (*textWriter)(nil)
)
