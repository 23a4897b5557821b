// Package scenario loads the spec.md §8 end-to-end fixtures (S1-S6) from
// YAML and runs each through internal/pipeline, so the scenario table lives
// as data rather than as hand-written Go test bodies duplicated across
// packages. Grounded in internal/config's use of gopkg.in/yaml.v3 for
// structured fixtures.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cool-lang/coolc/internal/pipeline"
)

// Case is one named scenario: a COOL source, whether it should compile
// clean, and (for the error scenarios) a code expected somewhere in the
// resulting diagnostics.
type Case struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Source      string `yaml:"source"`
	WantOK      bool   `yaml:"want_ok"`
	WantCode    string `yaml:"want_code,omitempty"`
	WantMIPS    string `yaml:"want_mips_contains,omitempty"`
}

// Suite is a YAML document's top-level shape: `cases: [...]`.
type Suite struct {
	Cases []Case `yaml:"cases"`
}

// Load decodes a scenario suite from path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Outcome is the result of running one Case against the pipeline.
type Outcome struct {
	Case    Case
	Result  *pipeline.Result
	Passed  bool
	Failure string
}

// Run compiles c.Source and checks it against c's expectations.
func Run(c Case) Outcome {
	res := pipeline.Compile([]byte(c.Source))
	out := Outcome{Case: c, Result: res, Passed: true}

	if res.OK() != c.WantOK {
		out.Passed = false
		out.Failure = fmt.Sprintf("want_ok=%v but compile produced OK()=%v (diagnostics: %v)", c.WantOK, res.OK(), res.Diagnostics)
		return out
	}

	if c.WantCode != "" {
		found := false
		for _, d := range res.Diagnostics {
			if d.Code == c.WantCode {
				found = true
				break
			}
		}
		if !found {
			out.Passed = false
			out.Failure = fmt.Sprintf("expected diagnostic code %s not found in %v", c.WantCode, res.Diagnostics)
			return out
		}
	}

	if c.WantMIPS != "" && !strings.Contains(res.MIPS, c.WantMIPS) {
		out.Passed = false
		out.Failure = fmt.Sprintf("expected MIPS output to contain %q", c.WantMIPS)
		return out
	}

	return out
}

// RunAll runs every case in s and returns their outcomes in order.
func RunAll(s *Suite) []Outcome {
	out := make([]Outcome, len(s.Cases))
	for i, c := range s.Cases {
		out[i] = Run(c)
	}
	return out
}
