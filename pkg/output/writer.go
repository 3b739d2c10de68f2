package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// WriteReport serializes a run report to path in the given format (json or
// yaml). A path of "-" prints to stdout.
func WriteReport(path string, report interface{}, format string) error {
	var buf []byte
	var err error
	switch format {
	case "json", "":
		buf, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report JSON: %w", err)
		}
		buf = append(buf, '\n')
	case "yaml":
		buf, err = yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report YAML: %w", err)
		}
	default:
		return fmt.Errorf("unknown report format %q", format)
	}

	if path == "-" {
		fmt.Print(string(buf))
		return nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("format", format).Int("bytes", len(buf)).Msg("report written")
	return nil
}
