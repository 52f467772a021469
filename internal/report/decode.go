package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Decode reads a report previously written as JSON or YAML.
func Decode(r io.Reader, format string) (Report, error) {
	var rep Report
	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(&rep); err != nil {
			return nil, fmt.Errorf("failed to decode json report: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&rep); err != nil {
			return nil, fmt.Errorf("failed to decode yaml report: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
	if rep == nil {
		rep = Report{}
	}
	return rep, nil
}
