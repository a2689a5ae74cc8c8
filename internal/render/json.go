package render

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSON writes the report as indented JSON with the stable field names
// (type, kind, name, oldLocation, newLocation, oldContent, newContent,
// impact, caveats, children).
func JSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}
