package ferrite

import (
	"fmt"
	"strings"
)

// ConstLinkage decides how a top-level `const` declaration is realized
// once lowered: a literal numeric/bool constant that
// fits an immediate lowers inline at every use site, while anything
// requiring computation (or a string) gets one static storage slot the
// whole program shares.
type ConstLinkage int

const (
	LinkageImmediate ConstLinkage = iota
	LinkageStatic
)

func (l ConstLinkage) String() string {
	if l == LinkageImmediate {
		return "immediate"
	}
	return "static"
}

// ConstPlan is the code-gen planner's decision for one `const`
// declaration: how it's linked, and — for static storage — the
// symbol visibility and (for strings) the C-escaped byte literal the
// backend emits.
type ConstPlan struct {
	Name     string
	Linkage  ConstLinkage
	Exported bool
	Value    constVal
	CLiteral string // only meaningful when Value.typ is string-shaped
}

// planConstDecl lowers a single analyzed ConstDecl. A const whose
// initializer is a bare integer, float, or bool literal fits a machine
// immediate and is inlined; a computed initializer gets static storage,
// and strings always do since an immediate can't hold variable-
// length data. isPub controls the emitted symbol's linkage the same
// way `pub fn`/`pub struct` control function/struct visibility.
func planConstDecl(cd *ConstDecl, val constVal) ConstPlan {
	plan := ConstPlan{Name: cd.Name, Exported: cd.IsPub, Value: val}
	if val.strVal != "" || (val.typ != nil && val.typ.Category == CategoryString) {
		plan.Linkage = LinkageStatic
		plan.CLiteral = cEscapeString(val.strVal)
		return plan
	}
	switch cd.Value.(type) {
	case *IntLiteral, *FloatLiteral, *BoolLiteral:
		plan.Linkage = LinkageImmediate
	default:
		plan.Linkage = LinkageStatic
	}
	return plan
}

// cEscapeString renders s as a C string literal body. Non-printable and non-ASCII bytes
// fall back to \xHH so the output is always a valid single-line C
// string regardless of input encoding.
func cEscapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			if c >= 0x20 && c < 0x7f {
				b.WriteByte(c)
			} else {
				fmt.Fprintf(&b, `\x%02x`, c)
			}
		}
	}
	return b.String()
}
