package diagfmt

import (
	"encoding/json"
	"io"

	"swiftconcur/internal/diag"
)

// JSON writes the full report. The output is accepted back as a baseline.
func JSON(w io.Writer, r *diag.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(r)
}
