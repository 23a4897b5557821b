package errors

import (
	"fmt"

	"github.com/cool-lang/coolc/internal/ast"
)

// Report is the canonical diagnostic value produced by every pass. It is
// data, not control flow: passes accumulate a []*Report and keep walking
// (spec.md §7), they never abort on the first error.
type Report struct {
	Kind    ErrorKind
	Code    string
	Pos     ast.Pos
	Message string
}

// Error satisfies the error interface so a Report can be returned/wrapped
// wherever idiomatic Go expects one, without losing its structured fields.
func (r *Report) Error() string {
	return r.String()
}

// String renders the stable terminal format spec.md §6 fixes:
// "(line,column) - ErrorKind: message".
func (r *Report) String() string {
	return fmt.Sprintf("(%d,%d) - %s: %s", r.Pos.Line, r.Pos.Column, r.Kind, r.Message)
}

func New(kind ErrorKind, code string, pos ast.Pos, format string, args ...interface{}) *Report {
	return &Report{
		Kind:    kind,
		Code:    code,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// Sink accumulates diagnostics for a single pass. Every pass owns one Sink
// and keeps processing after each Add (spec.md §7 recovery strategy).
type Sink struct {
	reports []*Report
}

func (s *Sink) Add(r *Report) {
	s.reports = append(s.reports, r)
}

func (s *Sink) Reports() []*Report {
	return s.reports
}

func (s *Sink) HasErrors() bool {
	return len(s.reports) > 0
}
