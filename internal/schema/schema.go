// Package schema holds the versioned identifiers stamped onto every piece
// of structured JSON this compiler emits, so downstream tooling can detect a
// format change. Adapted from ailang/internal/schema's *V1 constants.
package schema

// ErrorV1 is the schema identifier for a single JSON-encoded diagnostic
// (internal/errors.Report marshaled via internal/errors.Encode).
const ErrorV1 = "coolc.error/v1"

// ContextDumpV1 is the schema identifier for the `-dump-context` output
// (internal/types.Context rendered as JSON rather than the original's
// text dump; see SPEC_FULL.md "RECOVERED FEATURES").
const ContextDumpV1 = "coolc.context/v1"
