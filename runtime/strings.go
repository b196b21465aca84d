package runtime

// String mirrors the runtime's own string value: a length-prefixed,
// non-NUL-terminated buffer. The Go string literal type plays this role
// directly everywhere else in the compiler; this type exists only at
// the FFI boundary, which needs an explicit
// string<->C-string conversion pair.
type String string

// StringFromCString decodes a NUL-terminated byte buffer into a
// String, stopping at the first zero byte.
func StringFromCString(buf []byte) String {
	for i, b := range buf {
		if b == 0 {
			return String(buf[:i])
		}
	}
	return String(buf)
}

// StringToCString allocates a NUL-terminated buffer in the manual zone
// and returns an owning Ptr.
// The caller must Free(ptr, ZoneManual) when done.
func StringToCString(s String) Ptr {
	p := Alloc(len(s)+1, ZoneManual)
	buf, err := Bytes(p)
	if err != nil {
		panic(err)
	}
	copy(buf, s)
	buf[len(s)] = 0
	return p
}
