package runtime

import "fmt"

// Header is the fixed slice layout guaranteed stable
// across the FFI boundary: {ptr, offset, len, cap, element_size,
// ownership_tag, is_mutable, type_id}. Element addressing is
// ptr + (offset+i)*element_size;
// len <= cap is an invariant enforced by every constructor here, never
// just documented.
type Header struct {
	Data         Ptr
	Offset       uint64 // element index into Data's backing buffer this header's index 0 maps to
	Len          uint64
	Cap          uint64
	ElementSize  uint64
	Ownership    Zone
	IsMutable    bool
	TypeID       uint64
}

// SliceFromRaw builds a Header over an existing allocation. It panics
// on len > cap — that invariant is a construction-time contract, not
// a check deferred to later access.
func SliceFromRaw(ptr Ptr, length, capacity, elementSize uint64, isMutable bool, ownership Zone, typeID uint64) Header {
	if length > capacity {
		panic(fmt.Sprintf("runtime: slice_from_raw len %d exceeds cap %d", length, capacity))
	}
	return Header{
		Data:        ptr,
		Len:         length,
		Cap:         capacity,
		ElementSize: elementSize,
		Ownership:   ownership,
		IsMutable:   isMutable,
		TypeID:      typeID,
	}
}

// GetLen returns the slice's element count.
func (h Header) GetLen() uint64 { return h.Len }

// Element returns the byte range of element i within the slice's
// backing allocation. A bounds violation is fatal: this panics rather
// than returning an error, mirroring a hard runtime trap.
func (h Header) Element(i uint64) []byte {
	if i >= h.Len {
		panic(fmt.Sprintf("runtime: slice index %d out of bounds (len %d)", i, h.Len))
	}
	buf, err := Bytes(h.Data)
	if err != nil {
		panic(err)
	}
	start := (h.Offset + i) * h.ElementSize
	end := start + h.ElementSize
	if end > uint64(len(buf)) {
		panic(fmt.Sprintf("runtime: slice element %d out of backing-buffer range", i))
	}
	return buf[start:end]
}

// Subslice returns the Header for buf[start:end], sharing the same backing Ptr. A reversed or
// out-of-range range is a fatal bounds violation, same as Element.
func (h Header) Subslice(start, end uint64) Header {
	if start > end || end > h.Cap {
		panic(fmt.Sprintf("runtime: subslice [%d:%d] out of bounds (cap %d)", start, end, h.Cap))
	}
	return Header{
		Data:        Ptr{id: h.Data.id},
		Offset:      h.Offset + start,
		Len:         end - start,
		Cap:         h.Cap - start,
		ElementSize: h.ElementSize,
		Ownership:   h.Ownership,
		IsMutable:   h.IsMutable,
		TypeID:      h.TypeID,
	}
}
