package ferrite

// SymbolKind tags what a SymbolEntry denotes.
type SymbolKind int

const (
	SymbolVar SymbolKind = iota
	SymbolConst
	SymbolParam
	SymbolFunc
	SymbolStruct
	SymbolEnum
	SymbolField
	SymbolEnumVariant
)

func (k SymbolKind) String() string {
	names := [...]string{"var", "const", "param", "func", "struct", "enum", "field", "enum-variant"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// SymbolEntry is one binding in a SymbolTable.
type SymbolEntry struct {
	Name     string
	Kind     SymbolKind
	Type     *TypeDescriptor
	Location SourceLocation
	Mutable  bool
	IsUsed   bool
	Ordinal  int // insertion order, for deterministic field/param iteration
}

// SymbolTable is a single lexical scope: a name->entry map plus a
// pointer to the enclosing scope. The root table for a compilation unit has a nil
// Parent.
type SymbolTable struct {
	Parent  *SymbolTable
	entries map[string]*SymbolEntry
	order   []string
	next    int
}

// NewSymbolTable creates an empty scope chained to parent (nil for the
// outermost/global scope).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{Parent: parent, entries: make(map[string]*SymbolEntry)}
}

// Insert adds a new binding to this scope. It reports false without
// modifying the table if the name is already bound *in this scope*.
func (s *SymbolTable) Insert(e *SymbolEntry) bool {
	if _, exists := s.entries[e.Name]; exists {
		return false
	}
	e.Ordinal = s.next
	s.next++
	s.entries[e.Name] = e
	s.order = append(s.order, e.Name)
	return true
}

// LookupLocal resolves a name in this scope only, ignoring parents.
func (s *SymbolTable) LookupLocal(name string) (*SymbolEntry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// Lookup resolves a name by walking from this scope outward through
// Parent links.
func (s *SymbolTable) Lookup(name string) (*SymbolEntry, bool) {
	for t := s; t != nil; t = t.Parent {
		if e, ok := t.entries[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// Size reports the number of bindings in this scope (not ancestors).
func (s *SymbolTable) Size() int { return len(s.entries) }

// Iterate visits every entry in this scope in unspecified order,
// stopping early if visit returns false.
func (s *SymbolTable) Iterate(visit func(name string, e *SymbolEntry) bool) {
	for name, e := range s.entries {
		if !visit(name, e) {
			return
		}
	}
}

// IterateOrdered visits every entry in insertion order — used for
// struct fields and function parameters, where declaration order is
// semantically significant (layout, argument matching).
func (s *SymbolTable) IterateOrdered(visit func(name string, e *SymbolEntry) bool) {
	for _, name := range s.order {
		if !visit(name, s.entries[name]) {
			return
		}
	}
}

// AllNames returns every bound name reachable from this scope,
// including ancestors, nearest-scope-wins on shadowing — used by the
// "did you mean" suggestion search.
func (s *SymbolTable) AllNames() []string {
	seen := make(map[string]bool)
	var out []string
	for t := s; t != nil; t = t.Parent {
		for _, name := range t.order {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
