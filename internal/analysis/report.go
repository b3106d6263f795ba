package analysis

import (
	"encoding/json"
	"io"

	"github.com/blacktop/bytebun/internal/utils"
)

// WriteReport writes the facts of every artifact as a JSON array. Floats are
// rounded to utils.FloatPrecision decimals and object keys are sorted; unless
// compact, the output is indented by four spaces.
func WriteReport(w io.Writer, results []*Facts, compact bool) error {
	summary := make([]any, 0, len(results))
	for _, facts := range results {
		summary = append(summary, utils.TransformFloats(facts.Data()))
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "    ")
	}
	return enc.Encode(summary)
}
