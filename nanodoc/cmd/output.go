package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeOutput renders v to w in the requested format.
func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return NewValidationError("format output", "format", format,
			"Supported formats: json, yaml")
	}
}

// writeLine prints a plain scalar result such as an id or a boolean.
func writeLine(w io.Writer, v interface{}) error {
	_, err := fmt.Fprintln(w, v)
	return err
}
