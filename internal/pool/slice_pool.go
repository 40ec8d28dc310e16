package pool

import "sync"

// valueSlicePool recycles the value slices used by compiled record layouts.
var valueSlicePool = sync.Pool{
	New: func() any { return &[]any{} },
}

// GetValueSlice retrieves a value slice of exactly size elements.
//
// The caller must call the returned cleanup function, typically with defer,
// to clear the slice and return it to the pool.
//
// Example:
//
//	values, cleanup := pool.GetValueSlice(token.NumValues())
//	defer cleanup()
func GetValueSlice(size int) ([]any, func()) {
	ptr, _ := valueSlicePool.Get().(*[]any)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]any, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() {
		clear(*ptr)
		valueSlicePool.Put(ptr)
	}
}
