package ferrite

// OwnershipContext is the analyzer's derived view of a declaration's
// memory discipline, attached to
// every allocation-producing AST node.
type OwnershipContext struct {
	Ownership       OwnershipTag
	Zone            MemoryZone
	IsMutable       bool
	IsBorrowed      bool
	RequiresCleanup bool
	Location        SourceLocation
}

// ExtractOwnershipContext derives an OwnershipContext from a
// declaration's annotation list. With no explicit `#[ownership(...)]`
// annotation the zone defaults to `stack` rather
// than to any of the three named ownership tags, since "stack" has no
// corresponding OwnershipTag value of its own.
func ExtractOwnershipContext(anns []Annotation, loc SourceLocation) OwnershipContext {
	ctx := OwnershipContext{Zone: ZoneStack, Location: loc}
	if tag, ok := FindOwnership(anns); ok {
		ctx.Ownership = tag
		ctx.Zone = ZoneForOwnership(tag)
	}
	for _, t := range FindTransfers(anns) {
		if t.Transfer == TransferBorrowed {
			ctx.IsBorrowed = true
		}
	}
	ctx.RequiresCleanup = ctx.Zone == ZoneManual
	return ctx
}

// validateStructZones checks field-vs-struct ownership consistency:
// a field with no ownership annotation of its own
// inherits the struct's zone; a `pinned` field inside a `gc` struct is
// allowed, but a `gc` field inside a `c` (manual) struct is a
// ZONE_MISMATCH, since a manually-freed struct can't host a
// GC-traced sub-allocation the collector doesn't know to scan.
func (a *Analyzer) validateStructZones(sd *StructDecl) {
	structCtx := OwnershipContext{Zone: ZoneGC}
	if tag, ok := FindOwnership(sd.Annotations); ok {
		structCtx.Ownership = tag
		structCtx.Zone = ZoneForOwnership(tag)
	}

	for _, f := range sd.Fields {
		fieldZone := structCtx.Zone
		if tag, ok := FindOwnership(f.Annotations); ok {
			fieldZone = ZoneForOwnership(tag)
		}
		if structCtx.Zone == ZoneManual && fieldZone == ZoneGC {
			a.diags.Errorf(CodeZoneMismatch, f.Location,
				"gc-owned field %q not permitted inside a manually-owned (`c`) struct", f.Name)
		}
	}
}
