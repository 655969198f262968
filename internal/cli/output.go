package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/mcsync/pkg/config"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func outputFormat() string {
	if OutputFormat == nil || *OutputFormat == "" {
		return FormatText
	}
	return *OutputFormat
}

// writeStructured renders v as JSON or YAML when one of those was requested and
// reports whether it did.
func writeStructured(w io.Writer, v any) (bool, error) {
	switch format := outputFormat(); format {
	case FormatText:
		return false, nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(config.YAMLIndent)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return true, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func writeLines(w io.Writer, lines []string) {
	for _, l := range lines {
		_, _ = fmt.Fprintln(w, l)
	}
}
