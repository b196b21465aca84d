package ferrite

import "strings"

// analyzeIntLiteral assigns the literal an expected-context integer
// type, defaulting to i32 when no context exists, then range-checks
// the parsed value against that type. i128/u128 storage can't
// overflow, so they're exempt.
func (a *Analyzer) analyzeIntLiteral(n *IntLiteral, expected *TypeDescriptor) {
	t := expected
	if t == nil || !t.IsIntegerCompatible() {
		t = a.builtins.GetBuiltin("i32")
	}
	n.ResolvedType = t
	n.Flags.IsConstantExpr = true

	if t.IntW == Width128 {
		return
	}
	if t.Signed {
		_, hi, ok := IntRange(true, t.IntW)
		if ok && n.Value > uint64(hi) {
			a.diags.Errorf(CodeInvalidLiteral, n.Location,
				"integer literal %s exceeds range of type %s", n.Text, t)
		}
		return
	}
	if !IsUint64InRange(n.Value, t.IntW) {
		a.diags.Errorf(CodeInvalidLiteral, n.Location,
			"integer literal %s exceeds range of type %s", n.Text, t)
	}
}

// analyzeNegatedIntLiteral range-checks a literal appearing under a
// unary minus. The magnitude bound differs from the positive case:
// a signed type admits one more negative value than positive
// (|min| = max+1), and an unsigned type admits only -0.
func (a *Analyzer) analyzeNegatedIntLiteral(n *IntLiteral, expected *TypeDescriptor) {
	t := expected
	if t == nil || !t.IsIntegerCompatible() {
		t = a.builtins.GetBuiltin("i32")
	}
	n.ResolvedType = t
	n.Flags.IsConstantExpr = true

	if t.IntW == Width128 {
		return
	}
	if t.Signed {
		_, hi, ok := IntRange(true, t.IntW)
		if ok && n.Value > uint64(hi)+1 {
			a.diags.Errorf(CodeInvalidLiteral, n.Location,
				"integer literal -%s exceeds range of type %s", n.Text, t)
		}
		return
	}
	if n.Value != 0 {
		a.diags.Errorf(CodeInvalidLiteral, n.Location,
			"negative literal -%s cannot have unsigned type %s", n.Text, t)
	}
}

// analyzeCharLiteral resolves a char literal's type. In strict mode
// (analyzer.strict_mode) a char literal needs an explicit `char`
// expected-type context; otherwise it's accepted and defaults to
// `char` regardless.
func (a *Analyzer) analyzeCharLiteral(n *CharLiteral, expected *TypeDescriptor) {
	n.ResolvedType = a.builtins.GetBuiltin("char")
	n.Flags.IsConstantExpr = true
	if !a.cfg.GetBool("analyzer.strict_mode") &&
		!a.cfg.GetBool("analyzer.char_literal_requires_annotation") {
		return
	}
	if expected == nil || expected.Name != "char" {
		a.diags.Errorf(CodeTypeAnnotationRequired, n.Location,
			"character literal requires an explicit `char` type annotation in strict mode")
	}
}

// analyzeStringLiteral detects embedded newlines and normalizes
// multi-line literals by stripping their common leading indent.
func (a *Analyzer) analyzeStringLiteral(n *StringLiteral) {
	n.ResolvedType = a.builtins.GetBuiltin("string")
	n.Flags.IsConstantExpr = true
	if strings.Contains(n.Value, "\n") {
		n.Value = NormalizeMultilineString(n.Value)
	}
}

// NormalizeMultilineString strips the common leading-whitespace indent
// from every line of s (the minimum indent across non-empty lines),
// idempotently: normalize(normalize(s)) == normalize(s).
func NormalizeMultilineString(s string) string {
	lines := strings.Split(s, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ind := leadingSpaceCount(line)
		if minIndent == -1 || ind < minIndent {
			minIndent = ind
		}
	}
	if minIndent <= 0 {
		return s
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = stripLeadingSpaces(line, minIndent)
	}
	return strings.Join(out, "\n")
}

func leadingSpaceCount(s string) int {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

func stripLeadingSpaces(s string, n int) string {
	i := 0
	for i < len(s) && i < n && s[i] == ' ' {
		i++
	}
	return s[i:]
}
