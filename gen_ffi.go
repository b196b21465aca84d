package ferrite

// FFIArgClass categorizes how a single argument crosses the extern
// boundary. Each class gets a fixed marshaling recipe;
// the planner never invents a new recipe per call site.
type FFIArgClass int

const (
	// ClassDirect: a scalar (integer/float/bool/pointer) passed by
	// value in a register or stack slot, no copy required.
	ClassDirect FFIArgClass = iota
	// ClassSlice: a Ferrite slice header expands to a (ptr, len) pair
	// of C-ABI arguments; the backing storage is never copied.
	ClassSlice
	// ClassString: a Ferrite string is NUL-terminated into scratch
	// storage (or proven already NUL-terminated) before crossing.
	ClassString
	// ClassResult: the callee's return value needs post-call
	// unmarshaling (e.g. a C errno-style out-parameter) back into a
	// Ferrite value.
	ClassResult
	// ClassVariadic: the tail of a variadic extern signature; each
	// argument is individually classified and widened per the C
	// default-argument-promotion rules (float32->float64, integers
	// narrower than int -> int).
	ClassVariadic
)

func (c FFIArgClass) String() string {
	switch c {
	case ClassSlice:
		return "slice"
	case ClassString:
		return "string"
	case ClassResult:
		return "result"
	case ClassVariadic:
		return "variadic"
	default:
		return "direct"
	}
}

// FFIArgPlan is the marshaling recipe for one argument of one FFI
// call site: its class, the transfer discipline from its annotation,
// and whether the callee takes ownership — which in turn decides
// whether the caller must emit a release after the call returns.
type FFIArgPlan struct {
	Class       FFIArgClass
	Transfer    FFITransfer
	StackSlot   int // byte offset once classified, -1 until STACK_ALIGN
	NeedsCopy   bool
	NeedsRelease bool
}

// FFICallPlan is the complete marshaling plan for one `extern` call
// site, built by walking the state machine below.
type FFICallPlan struct {
	Callee      string
	Args        []FFIArgPlan
	ReturnClass FFIArgClass
	StackBytes  int // total aligned outgoing-argument stack size
}

// ffiState is the FFI-call planning state machine's named states:
// INIT -> PARAM_CLASSIFY -> STACK_ALIGN -> CALL ->
// RETURN_CLASSIFY -> DONE, with ERROR reachable from any classify step.
type ffiState int

const (
	ffiInit ffiState = iota
	ffiParamClassify
	ffiStackAlign
	ffiCall
	ffiReturnClassify
	ffiDone
	ffiError
)

func (s ffiState) String() string {
	switch s {
	case ffiParamClassify:
		return "PARAM_CLASSIFY"
	case ffiStackAlign:
		return "STACK_ALIGN"
	case ffiCall:
		return "CALL"
	case ffiReturnClassify:
		return "RETURN_CLASSIFY"
	case ffiDone:
		return "DONE"
	case ffiError:
		return "ERROR"
	default:
		return "INIT"
	}
}

// stackAlignBytes is the System V AMD64 outgoing-stack-argument
// alignment the planner assumes.
const stackAlignBytes = 16

// planFFICall walks the FFI state machine for one call against an
// externally-declared function type, producing the call's marshaling
// plan. It returns (plan, false) if classification fails for any
// argument — the caller reports CodeFFIBoundaryError at that point
// rather than the planner doing so directly, since diagnostics belong
// to the analyzer/driver layer.
func planFFICall(calleeName string, paramTypes []*TypeDescriptor, transfers []FFITransfer, retType *TypeDescriptor) (FFICallPlan, bool) {
	state := ffiInit
	plan := FFICallPlan{Callee: calleeName}

	state = ffiParamClassify
	for i, pt := range paramTypes {
		argPlan, ok := classifyFFIArg(pt)
		if !ok {
			state = ffiError
			return plan, false
		}
		if i < len(transfers) {
			argPlan.Transfer = transfers[i]
			argPlan.NeedsRelease = transfers[i] == TransferFull
		}
		argPlan.StackSlot = -1
		plan.Args = append(plan.Args, argPlan)
	}

	state = ffiStackAlign
	offset := 0
	for i := range plan.Args {
		plan.Args[i].StackSlot = offset
		offset += ffiSlotSize(plan.Args[i].Class)
	}
	plan.StackBytes = alignUp(offset, stackAlignBytes)

	state = ffiCall
	state = ffiReturnClassify
	if retType == nil || retType.Category == CategoryVoid || retType.Category == CategoryNever {
		plan.ReturnClass = ClassDirect
	} else {
		rp, ok := classifyFFIArg(retType)
		if !ok {
			state = ffiError
			return plan, false
		}
		plan.ReturnClass = rp.Class
	}

	state = ffiDone
	_ = state
	return plan, true
}

// classifyFFIArg maps a resolved type to its marshaling class.
func classifyFFIArg(t *TypeDescriptor) (FFIArgPlan, bool) {
	if t == nil {
		return FFIArgPlan{}, false
	}
	switch t.Category {
	case CategorySlice:
		return FFIArgPlan{Class: ClassSlice, NeedsCopy: false}, true
	case CategoryString:
		return FFIArgPlan{Class: ClassString, NeedsCopy: true}, true
	case CategoryPrimitive, CategoryInteger, CategoryFloat, CategoryBool, CategoryPointer, CategoryEnum:
		return FFIArgPlan{Class: ClassDirect}, true
	case CategoryStruct:
		// Structs cross by pointer: the ABI passes a reference, the
		// backend is responsible for stack-spilling small structs if
		// the target calling convention demands it.
		return FFIArgPlan{Class: ClassDirect}, true
	default:
		return FFIArgPlan{}, false
	}
}

// ffiSlotSize is the outgoing-stack footprint in bytes for one
// classified argument, expressed in 8-byte words. A slice crosses as a
// two-word (ptr, len) pair, not the three-word size TypeInfo gives a
// slice (types.go).
func ffiSlotSize(c FFIArgClass) int {
	switch c {
	case ClassSlice:
		return 16 // (ptr, len) pair
	case ClassString:
		return 8 // NUL-terminated pointer
	default:
		return 8
	}
}
