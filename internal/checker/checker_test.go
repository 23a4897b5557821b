package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/parser"
)

// run drives collect -> build -> check/infer over src and returns every
// diagnostic code produced, stopping at the first pass that reports any
// (spec.md §7: "the first pass that accumulates any error aborts the
// pipeline before the next pass runs").
func run(t *testing.T, src string) []string {
	t.Helper()
	prog, parseReports := parser.Parse([]byte(src))
	require.Empty(t, parseReports, "parse failed: %v", parseReports)

	ctx, reports := CollectTypes(prog)
	if len(reports) > 0 {
		return codes(reports)
	}

	manager, tables, reports := BuildTypes(prog, ctx)
	if len(reports) > 0 {
		return codes(reports)
	}

	_, reports = RunInference(prog, ctx, manager, tables)
	return codes(reports)
}

func codes(reports []*errors.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.Code
	}
	return out
}

func TestDuplicateClassDeclaration(t *testing.T) {
	assert.Equal(t, []string{errors.SEM001}, run(t, `
class A {};
class A {};
`))
}

// TestDuplicateClassDeclarationReportsPreciseDiagnostic structurally diffs
// the full *errors.Report slice (not just its codes) against the exact
// shape CollectTypes produces, the way ailang/internal/parser/testutil.go's
// goldenCompare uses go-cmp for precise diagnostic/AST comparisons rather
// than spot-checking a single field.
func TestDuplicateClassDeclarationReportsPreciseDiagnostic(t *testing.T) {
	prog, parseReports := parser.Parse([]byte(`
class A {};
class A {};
`))
	require.Empty(t, parseReports)

	_, reports := CollectTypes(prog)
	require.Len(t, reports, 1)

	want := []*errors.Report{
		errors.New(errors.KindSemanticError, errors.SEM001, reports[0].Pos,
			"class %q is already declared: %s", "A", `type "A" already declared`),
	}
	if diff := cmp.Diff(want, reports); diff != "" {
		t.Errorf("diagnostic mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateAttributeAcrossAncestor(t *testing.T) {
	assert.Equal(t, []string{errors.SEM005}, run(t, `
class A { x: Int; };
class B inherits A { x: Int; };
`))
}

func TestDuplicateMethodInSameClass(t *testing.T) {
	assert.Equal(t, []string{errors.SEM006}, run(t, `
class A {
	f(): Int { 1 };
	f(): Int { 2 };
};
`))
}

func TestInvalidOverrideSignatureArity(t *testing.T) {
	assert.Equal(t, []string{errors.SEM007}, run(t, `
class A { f(x: Int): Int { x }; };
class B inherits A { f(x: Int, y: Int): Int { x }; };
`))
}

func TestInvalidOverrideReturnType(t *testing.T) {
	assert.Equal(t, []string{errors.SEM007}, run(t, `
class A { f(): Int { 0 }; };
class B inherits A { f(): Object { 0 }; };
`))
}

func TestValidOverrideSameSignaturePasses(t *testing.T) {
	assert.Empty(t, run(t, `
class A { f(x: Int): Int { x }; };
class B inherits A { f(x: Int): Int { x + 1 }; };
class Main inherits IO { main(): Object { out_string("ok") }; };
`))
}

func TestUndeclaredParentIsReported(t *testing.T) {
	assert.Equal(t, []string{errors.SEM002}, run(t, `
class A inherits Ghost {};
`))
}

func TestParentCannotBeSelfType(t *testing.T) {
	assert.Equal(t, []string{errors.SEM008}, run(t, `
class A inherits SELF_TYPE {};
`))
}

func TestThreeClassInheritanceCycle(t *testing.T) {
	codes := run(t, `
class A inherits B {};
class B inherits C {};
class C inherits A {};
`)
	require.NotEmpty(t, codes)
	for _, c := range codes {
		assert.Equal(t, errors.SEM004, c)
	}
}

func TestUndeclaredIdentifierReportsNameError(t *testing.T) {
	assert.Equal(t, []string{errors.TC001}, run(t, `
class Main {
	main(): Object { undeclared_var };
};
`))
}

func TestAssignToSelfIsRejected(t *testing.T) {
	codes := run(t, `
class Main {
	main(): Object { self <- self };
};
`)
	assert.Contains(t, codes, errors.TC010)
}

func TestArithmeticRequiresIntOperands(t *testing.T) {
	assert.Equal(t, []string{errors.TC006}, run(t, `
class Main {
	main(): Int { true + 1 };
};
`))
}

func TestEqualityAcrossBuiltinKindsIsRejected(t *testing.T) {
	assert.Equal(t, []string{errors.TC007}, run(t, `
class Main {
	main(): Bool { 1 = "1" };
};
`))
}

func TestEqualityBetweenUserTypesConformingToObjectIsAllowed(t *testing.T) {
	assert.Empty(t, run(t, `
class A {};
class B {};
class Main {
	main(): Bool { (new A) = (new B) };
};
`))
}

func TestCaseBranchTypeMustBeDeclaredClass(t *testing.T) {
	codes := run(t, `
class Main {
	main(): Object { case 1 of x: SELF_TYPE => x; esac };
};
`)
	assert.Contains(t, codes, errors.TC008)
}

func TestCaseDuplicateBranchTypeIsRejected(t *testing.T) {
	codes := run(t, `
class A {};
class Main {
	main(): Object { case 1 of x: A => x; y: A => y; esac };
};
`)
	assert.Contains(t, codes, errors.TC011)
}

func TestCaseJoinsBranchTypes(t *testing.T) {
	assert.Empty(t, run(t, `
class A {};
class B inherits A {};
class C inherits A {};
class Main {
	main(): A { case 1 of x: B => x; y: C => y; esac };
};
`))
}

func TestDispatchArgumentMustConform(t *testing.T) {
	assert.Equal(t, []string{errors.TC012}, run(t, `
class Main {
	f(x: Int): Int { x };
	main(): Int { f("nope") };
};
`))
}

func TestStaticDispatchReceiverMustConformToTarget(t *testing.T) {
	assert.Equal(t, []string{errors.TC015}, run(t, `
class A {};
class B { m(): Object { self }; };
class Main {
	main(): Object { (new A)@B.m() };
};
`))
}

func TestNewSelfTypeResolvesToSelfType(t *testing.T) {
	assert.Empty(t, run(t, `
class Main {
	main(): SELF_TYPE { new SELF_TYPE };
};
`))
}

func TestLetBindingVisibleToSubsequentBindingNotItself(t *testing.T) {
	// The `x` in the second let's initializer must resolve to the first
	// let's binding, not to the binding being introduced (spec.md §9).
	assert.Empty(t, run(t, `
class Main {
	main(): Int {
		let x: Int <- 1 in
		let x: Int <- x + 1 in
			x
	};
};
`))
}

func TestAutoTypeInferredFromArithmeticUse(t *testing.T) {
	assert.Empty(t, run(t, `
class Main {
	f(x: AUTO_TYPE): Int { x + 1 };
	main(): Int { f(2) };
};
`))
}

func TestAutoTypeAmbiguousCandidateSetIsAnInferenceError(t *testing.T) {
	// x is constrained to conform to both String (passed where one is
	// expected) and Int (used arithmetically) — two incomparable upper
	// bounds with no admissible common subtype.
	codes := run(t, `
class Main {
	g(s: String): String { s };
	f(x: AUTO_TYPE): Int { { g(x); x + 1; } };
	main(): Int { f(2) };
};
`)
	assert.Contains(t, codes, errors.INF002)
}

func TestAutoTypeEmptyCandidateSetIsAnInferenceError(t *testing.T) {
	// x's upper bound (Int, from arithmetic use) conflicts with its lower
	// bound (String, from an assignment) — no type satisfies both.
	codes := run(t, `
class Main {
	f(x: AUTO_TYPE): Int {
		let s: String <- "hi" in {
			x <- s;
			x + 1;
		}
	};
	main(): Int { f(2) };
};
`)
	assert.Contains(t, codes, errors.INF001)
}

func TestSelfTypeCovarianceAllowsOverrideWithSelfType(t *testing.T) {
	assert.Empty(t, run(t, `
class A { copy(): SELF_TYPE { self }; };
class B inherits A {};
class Main inherits IO { main(): Object { out_string("ok") }; };
`))
}
