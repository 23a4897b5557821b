package errors

import (
	"encoding/json"

	"github.com/cool-lang/coolc/internal/schema"
)

// Encoded is the JSON-serializable form of a Report, used by `coolc -json`
// to emit machine-readable diagnostics instead of the terminal format.
// Adapted from ailang/internal/errors/json_encoder.go's Encoded struct.
type Encoded struct {
	Schema  string `json:"schema"`
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Encode converts a Report into its JSON-serializable form.
func Encode(r *Report) Encoded {
	return Encoded{
		Schema:  schema.ErrorV1,
		Code:    r.Code,
		Kind:    string(r.Kind),
		Line:    r.Pos.Line,
		Column:  r.Pos.Column,
		Message: r.Message,
	}
}

// EncodeAll renders a full diagnostic list as an indented JSON array.
func EncodeAll(reports []*Report) ([]byte, error) {
	encoded := make([]Encoded, len(reports))
	for i, r := range reports {
		encoded[i] = Encode(r)
	}
	return json.MarshalIndent(encoded, "", "  ")
}
