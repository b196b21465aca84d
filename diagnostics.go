package ferrite

import "fmt"

// Severity classifies a Diagnostic for driver/caller decisions:
// only error-severity diagnostics stop the pipeline (the driver does
// not run the next stage once a stage has reported one); warnings and
// infos never do. There is no separate strict mode.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Code is a stable, user-facing diagnostic identifier.
type Code string

const (
	CodeUnexpectedToken       Code = "UNEXPECTED_TOKEN"
	CodeUnterminatedConstruct Code = "UNTERMINATED_CONSTRUCT"
	CodeTrailingComma         Code = "TRAILING_COMMA"
	CodeBareAnnotation        Code = "BARE_ANNOTATION"
	CodeLegacyAnnotation      Code = "LEGACY_ANNOTATION"

	CodeUndefinedSymbol        Code = "UNDEFINED_SYMBOL"
	CodeDuplicateSymbol        Code = "DUPLICATE_SYMBOL"
	CodeTypeMismatch           Code = "TYPE_MISMATCH"
	CodeInvalidLiteral         Code = "INVALID_LITERAL"
	CodeTypeAnnotationRequired Code = "TYPE_ANNOTATION_REQUIRED"
	CodeInvalidOperation       Code = "INVALID_OPERATION"
	CodeInvalidExpression      Code = "INVALID_EXPRESSION"

	CodeUnknownAnnotation      Code = "UNKNOWN_ANNOTATION"
	CodeInvalidContext         Code = "INVALID_CONTEXT"
	CodeConflictingAnnotations Code = "CONFLICTING_ANNOTATIONS"

	CodeZoneMismatch      Code = "ZONE_MISMATCH"
	CodeTransferViolation Code = "TRANSFER_VIOLATION"
	CodeLifetimeViolation Code = "LIFETIME_VIOLATION"
	CodeFFIBoundaryError  Code = "FFI_BOUNDARY_ERROR"

	CodeInternal Code = "INTERNAL"
)

// Diagnostic is the unit of user-visible feedback from every stage of
// the pipeline: parser, analyzer, ownership validation,
// and code-gen planner all append to a diagnostic list rather than
// aborting. It satisfies the standard error interface so it composes
// with fmt.Errorf's %w and errors.As (one-line "message @ span"
// rendering).
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Location   SourceLocation
	Suggestion string // "did you mean X" — empty if none
}

func (d Diagnostic) Error() string {
	if d.Suggestion != "" {
		return fmt.Sprintf("%s [%s] @ %s (did you mean `%s`?)", d.Message, d.Code, d.Location, d.Suggestion)
	}
	return fmt.Sprintf("%s [%s] @ %s", d.Message, d.Code, d.Location)
}

// IsError reports whether this diagnostic has error severity.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// Diagnostics is an accumulated, ordered diagnostic list. It is not
// safe for concurrent appends from multiple goroutines — the parser
// and analyzer are single-threaded per compilation unit.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) Add(diag Diagnostic) { d.items = append(d.items, diag) }

func (d *Diagnostics) Errorf(code Code, loc SourceLocation, format string, args ...any) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...), Location: loc})
}

func (d *Diagnostics) Warnf(code Code, loc SourceLocation, format string, args ...any) {
	d.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...), Location: loc})
}

// HasErrors reports whether any accumulated diagnostic is error-severity.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.IsError() {
			return true
		}
	}
	return false
}

func (d *Diagnostics) Items() []Diagnostic { return d.items }

func (d *Diagnostics) Len() int { return len(d.items) }

// backtrackingError is an internal, never-surfaced error type. No code
// path constructs it at present: the parser's recovery
// (skip-to-delimiter) reports every failure as a Diagnostic.
type backtrackingError struct {
	Message string
	Span    Span
}

func (e backtrackingError) Error() string {
	return fmt.Sprintf("%s @ %s", e.Message, e.Span)
}
