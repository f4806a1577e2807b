package reporter

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes the run result as indented JSON.
func WriteJSON(w io.Writer, result *RunResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("could not encode run result: %w", err)
	}
	return nil
}
