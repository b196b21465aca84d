package ferrite

import (
	"fmt"
	"strings"
)

// TypeCategory tags a TypeDescriptor's shape.
type TypeCategory int

const (
	CategoryPrimitive TypeCategory = iota
	CategoryInteger
	CategoryFloat
	CategoryBool
	CategoryString
	CategorySlice
	CategoryPointer
	CategoryStruct
	CategoryEnum
	CategoryFunction
	CategoryNever
	CategoryVoid
)

func (c TypeCategory) String() string {
	names := [...]string{"primitive", "integer", "float", "bool", "string", "slice", "pointer", "struct", "enum", "function", "never", "void"}
	if int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// IntWidth and signedness select one of the language's integer kinds.
type IntWidth int

const (
	Width8 IntWidth = 8
	Width16 IntWidth = 16
	Width32 IntWidth = 32
	Width64 IntWidth = 64
	Width128 IntWidth = 128
	WidthUsize IntWidth = -1 // platform word size; treated as 64 for bounds/size purposes
)

// FloatWidth selects f32 or f64.
type FloatWidth int

const (
	FloatWidth32 FloatWidth = 32
	FloatWidth64 FloatWidth = 64
)

// Mutability applies to slice element access and pointer targets.
type Mutability int

const (
	Immutable Mutability = iota
	Mutable
)

// TypeDescriptor is the refcounted type representation shared by every
// AST node and symbol that resolves to it. Retain/Release
// are the only legal lifetime operations on a handle — reassigning the
// pointer without going through them is an internal bug.
//
// Go's garbage collector already reclaims unreferenced TypeDescriptors;
// the refcount here is not a memory-safety mechanism, it's part of the
// *observable* contract (so that, e.g., the
// analyzer can assert a descriptor has exactly the expected number of
// live references in a test, independent of when Go's GC would have
// gotten around to collecting it).
type TypeDescriptor struct {
	Category TypeCategory
	refcount int32

	// integer / float
	Signed bool
	IntW   IntWidth
	FloatW FloatWidth

	// slice / pointer
	Elem        *TypeDescriptor
	ElemMutable Mutability

	// struct
	Name       string
	Fields     *SymbolTable
	Methods    *SymbolTable
	IsGeneric  bool
	TypeParams []string

	// enum
	Variants []EnumVariant

	// function
	Params     []*TypeDescriptor
	ReturnType *TypeDescriptor
}

// EnumVariant is one arm of an enum type, optionally carrying a
// payload type.
type EnumVariant struct {
	Name    string
	Payload *TypeDescriptor // nil if the variant carries no value
	Value   *int64          // left nil by the analyzer; an explicit `= expr` stays on the AST's EnumVariantDecl
}

// Retain increments the descriptor's refcount. Every place a
// TypeDescriptor handle is copied into a longer-lived slot (a symbol
// entry, a struct field list) must Retain first.
func (t *TypeDescriptor) Retain() *TypeDescriptor {
	if t != nil {
		t.refcount++
	}
	return t
}

// Release decrements the descriptor's refcount and returns storage
// (drops the last reference) when it reaches zero. Structs/enums also
// release their field and method tables so their entries' own type
// handles unwind correctly.
func (t *TypeDescriptor) Release() {
	if t == nil {
		return
	}
	t.refcount--
	if t.refcount > 0 {
		return
	}
	switch t.Category {
	case CategorySlice, CategoryPointer:
		t.Elem.Release()
	case CategoryFunction:
		for _, p := range t.Params {
			p.Release()
		}
		t.ReturnType.Release()
	case CategoryStruct:
		if t.Fields != nil {
			t.Fields.Iterate(func(_ string, e *SymbolEntry) bool {
				e.Type.Release()
				return true
			})
		}
	case CategoryEnum:
		for _, v := range t.Variants {
			v.Payload.Release()
		}
	}
}

// RefCount exposes the current refcount, mostly for tests asserting
// the invariant that releasing every retained handle returns it to
// zero before the descriptor is discarded.
func (t *TypeDescriptor) RefCount() int32 {
	if t == nil {
		return 0
	}
	return t.refcount
}

func (t *TypeDescriptor) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Category {
	case CategoryInteger:
		sign := "i"
		if !t.Signed {
			sign = "u"
		}
		if t.IntW == WidthUsize {
			if t.Signed {
				return "isize"
			}
			return "usize"
		}
		return fmt.Sprintf("%s%d", sign, t.IntW)
	case CategoryFloat:
		return fmt.Sprintf("f%d", t.FloatW)
	case CategoryBool:
		return "bool"
	case CategoryString:
		return "string"
	case CategorySlice:
		if t.ElemMutable == Mutable {
			return fmt.Sprintf("[]mut %s", t.Elem)
		}
		return fmt.Sprintf("[]%s", t.Elem)
	case CategoryPointer:
		if t.ElemMutable == Mutable {
			return fmt.Sprintf("*mut %s", t.Elem)
		}
		return fmt.Sprintf("*%s", t.Elem)
	case CategoryStruct:
		return t.Name
	case CategoryEnum:
		return t.Name
	case CategoryFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.ReturnType)
	case CategoryNever:
		return "never"
	case CategoryVoid:
		return "void"
	default:
		return "primitive"
	}
}

// Equal performs the comparison rule: structural equality
// for primitives, nominal equality for user-defined (struct/enum) types.
func (t *TypeDescriptor) Equal(o *TypeDescriptor) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Category != o.Category {
		return false
	}
	switch t.Category {
	case CategoryInteger:
		return t.Signed == o.Signed && t.IntW == o.IntW
	case CategoryFloat:
		return t.FloatW == o.FloatW
	case CategoryBool, CategoryString, CategoryNever, CategoryVoid:
		return true
	case CategorySlice, CategoryPointer:
		return t.ElemMutable == o.ElemMutable && t.Elem.Equal(o.Elem)
	case CategoryStruct, CategoryEnum:
		return t.Name == o.Name // nominal
	case CategoryFunction:
		if len(t.Params) != len(o.Params) || !t.ReturnType.Equal(o.ReturnType) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsIntegerCompatible reports whether a value of this type can receive
// an integer literal directly.
func (t *TypeDescriptor) IsIntegerCompatible() bool {
	return t != nil && (t.Category == CategoryInteger)
}

// builtinTable holds the fixed set of primitive types get_builtin
// serves. Populated once by newBuiltinTable.
type builtinTable struct {
	types map[string]*TypeDescriptor
}

func newBuiltinTable() *builtinTable {
	t := &builtinTable{types: make(map[string]*TypeDescriptor)}
	add := func(name string, td *TypeDescriptor) {
		td.Name = name
		t.types[name] = td
	}

	add("void", &TypeDescriptor{Category: CategoryVoid})
	add("bool", &TypeDescriptor{Category: CategoryBool})
	add("string", &TypeDescriptor{Category: CategoryString})
	add("char", &TypeDescriptor{Category: CategoryInteger, Signed: false, IntW: Width32})
	add("never", &TypeDescriptor{Category: CategoryNever})
	add("f32", &TypeDescriptor{Category: CategoryFloat, FloatW: FloatWidth32})
	add("f64", &TypeDescriptor{Category: CategoryFloat, FloatW: FloatWidth64})

	for _, w := range []IntWidth{Width8, Width16, Width32, Width64, Width128} {
		add(fmt.Sprintf("i%d", w), &TypeDescriptor{Category: CategoryInteger, Signed: true, IntW: w})
		add(fmt.Sprintf("u%d", w), &TypeDescriptor{Category: CategoryInteger, Signed: false, IntW: w})
	}
	add("isize", &TypeDescriptor{Category: CategoryInteger, Signed: true, IntW: WidthUsize})
	add("usize", &TypeDescriptor{Category: CategoryInteger, Signed: false, IntW: WidthUsize})

	return t
}

// GetBuiltin returns a retained handle to the named builtin type, or
// nil if the name isn't one of the fixed builtins.
func (t *builtinTable) GetBuiltin(name string) *TypeDescriptor {
	td, ok := t.types[name]
	if !ok {
		return nil
	}
	return td.Retain()
}

// IntRange returns the inclusive [min, max] range for an integer type,
// or ok=false for i128/u128: a literal already parsed into 64-bit
// storage can't overflow 128-bit storage, so the caller skips range
// checking for them.
func IntRange(signed bool, width IntWidth) (lo, hi int64, ok bool) {
	w := width
	if w == WidthUsize {
		w = Width64
	}
	if w == Width128 {
		return 0, 0, false
	}
	bits := uint(w)
	if signed {
		hi = int64(1)<<(bits-1) - 1
		lo = -(int64(1) << (bits - 1))
		return lo, hi, true
	}
	if bits >= 64 {
		return 0, 1<<63 - 1, true // u64 max doesn't fit in int64; callers needing full range use IsUint64InRange
	}
	return 0, int64(1)<<bits - 1, true
}

// IsUint64InRange checks an unsigned literal value (parsed as uint64)
// against a type's range, handling u64's full range which int64 can't
// represent.
func IsUint64InRange(v uint64, width IntWidth) bool {
	w := width
	if w == WidthUsize {
		w = Width64
	}
	if w >= Width64 {
		return true
	}
	max := uint64(1)<<uint(w) - 1
	return v <= max
}

// TypeInfo is the read-only projection code generation consumes:
// a kind tag, a size estimate, and a back-pointer to
// the live descriptor. It never outlives the TypeDescriptor it points
// to and does not itself participate in refcounting.
type TypeInfo struct {
	Kind        TypeCategory
	SizeInBytes int
	Descriptor  *TypeDescriptor
}

// NewTypeInfo derives a TypeInfo from a TypeDescriptor using fixed
// size heuristics: primitives exact; structs = sum
// of field sizes with alignment; slices = 3 words; function/pointer =
// 1 word.
func NewTypeInfo(t *TypeDescriptor) TypeInfo {
	const wordSize = 8
	if t == nil {
		// An unresolved type (a prior diagnostic already covers it)
		// sizes as zero rather than crashing downstream size math.
		return TypeInfo{}
	}
	info := TypeInfo{Kind: t.Category, Descriptor: t}
	switch t.Category {
	case CategoryBool:
		info.SizeInBytes = 1
	case CategoryInteger:
		w := t.IntW
		if w == WidthUsize {
			w = Width64
		}
		info.SizeInBytes = int(w) / 8
	case CategoryFloat:
		info.SizeInBytes = int(t.FloatW) / 8
	case CategoryString:
		info.SizeInBytes = 2 * wordSize // {ptr, len}, no cap needed for an immutable string
	case CategorySlice:
		info.SizeInBytes = 3 * wordSize // {ptr, len, cap}
	case CategoryPointer, CategoryFunction:
		info.SizeInBytes = wordSize
	case CategoryStruct:
		info.SizeInBytes = structSizeEstimate(t)
	case CategoryEnum:
		info.SizeInBytes = enumSizeEstimate(t)
	case CategoryNever, CategoryVoid:
		info.SizeInBytes = 0
	}
	return info
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) / align * align
}

func structSizeEstimate(t *TypeDescriptor) int {
	if t.Fields == nil {
		return 0
	}
	offset := 0
	maxAlign := 1
	t.Fields.IterateOrdered(func(_ string, e *SymbolEntry) bool {
		fi := NewTypeInfo(e.Type)
		align := fi.SizeInBytes
		if align == 0 {
			align = 1
		}
		if align > 8 {
			align = 8
		}
		if align > maxAlign {
			maxAlign = align
		}
		offset = alignUp(offset, align) + fi.SizeInBytes
		return true
	})
	return alignUp(offset, maxAlign)
}

// enumSizeEstimate models a tagged union: a discriminant word plus the
// largest variant payload.
func enumSizeEstimate(t *TypeDescriptor) int {
	maxPayload := 0
	for _, v := range t.Variants {
		if v.Payload == nil {
			continue
		}
		pi := NewTypeInfo(v.Payload)
		if pi.SizeInBytes > maxPayload {
			maxPayload = pi.SizeInBytes
		}
	}
	return 8 + maxPayload
}
