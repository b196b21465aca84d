package ferrite

import "strings"

// validateFFIAnnotations checks transfer-tag placement. isParam
// distinguishes a parameter annotation list (where `borrowed` is
// legal) from a function's own annotation list, which stands in for
// the return value's annotations (there is no separate return-type
// AST node to hang them on) — so `borrowed` there is INVALID_CONTEXT.
func (a *Analyzer) validateFFIAnnotations(anns []Annotation, loc SourceLocation, isParam bool) {
	transfers := FindTransfers(anns)
	if len(transfers) > 1 {
		a.diags.Errorf(CodeConflictingAnnotations, loc,
			"conflicting FFI transfer annotations: %s and %s", transfers[0].Transfer, transfers[1].Transfer)
	}
	if !isParam {
		for _, t := range transfers {
			if t.Transfer == TransferBorrowed {
				a.diags.Errorf(CodeInvalidContext, t.Location, "`borrowed` transfer annotation is not valid on a return type")
			}
		}
	}
	for _, ann := range anns {
		if ann.Kind == AnnotationGeneric && strings.Contains(ann.Name, "transfer") {
			a.diags.Errorf(CodeUnknownAnnotation, ann.Location, "unknown FFI transfer annotation %q", ann.Name)
		}
	}
}
