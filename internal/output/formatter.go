// Package output renders analysis results for the command line as text,
// JSON or YAML.
package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rohankatakam/codeinsight/internal/errors"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formatter writes a value to w
type Formatter interface {
	Format(v interface{}, w io.Writer) error
}

// ParseFormat accepts auto, text, json or yaml in any case. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.ValidationErrorf("unknown output format %q (want auto, text, json or yaml)", s)
	}
}

// Resolve picks a concrete format for auto: text on a terminal, JSON when
// piped or under CI. CODEINSIGHT_FORMAT overrides auto.
func Resolve(f Format, w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if env, err := ParseFormat(os.Getenv("CODEINSIGHT_FORMAT")); err == nil && env != FormatAuto {
		return env
	}
	if os.Getenv("CI") == "true" {
		return FormatJSON
	}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return FormatText
	}
	return FormatJSON
}

// NewFormatter returns the formatter for f, resolving auto against w
func NewFormatter(f Format, w io.Writer) Formatter {
	switch Resolve(f, w) {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// Write formats v onto w in one call
func Write(w io.Writer, f Format, v interface{}) error {
	return NewFormatter(f, w).Format(v, w)
}

// JSONFormatter writes one JSON document per value
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format(v interface{}, w io.Writer) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(v)
}

// YAMLFormatter writes one YAML document per value
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(v interface{}, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
