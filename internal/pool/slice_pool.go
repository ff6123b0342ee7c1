package pool

import "sync"

// MaxPooledBytes is the largest raw buffer returned to the pool. Larger
// buffers are left to the garbage collector so one huge slice request does
// not pin its memory for the life of the process.
const MaxPooledBytes = 4 * 1024 * 1024 // 4MiB

// Raw sample staging buffers. Slice reads copy big-endian samples out of the
// tile cache into one of these before decoding into caller-owned buffers.
var byteSlicePool = sync.Pool{
	New: func() any { return &[]byte{} },
}

// GetByteSlice retrieves and resizes a byte slice from the pool.
//
// The returned slice has length size; its contents are unspecified. The
// caller must invoke the cleanup function once the slice is no longer
// referenced, typically with defer.
//
// Example:
//
//	raw, cleanup := pool.GetByteSlice(n * elemSize)
//	defer cleanup()
func GetByteSlice(size int) ([]byte, func()) {
	ptr, _ := byteSlicePool.Get().(*[]byte)
	if ptr == nil {
		ptr = &[]byte{}
	}

	slice := *ptr
	if cap(slice) < size {
		slice = make([]byte, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() {
		if cap(*ptr) > MaxPooledBytes {
			return
		}
		byteSlicePool.Put(ptr)
	}
}
