package tflite

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"reflect"
	"unsafe"
)

// File implements several CGO helper utilities.

// cFree calls C.free() on the unsafe.Pointer version of data.
func cFree[T any](data *T) {
	C.free(unsafe.Pointer(data))
}

// cSizeOf returns the size of the given type in bytes. Notice some structures may be padded, and this will
// include that space.
func cSizeOf[T any]() C.size_t {
	var ptr *T
	return C.size_t(reflect.TypeOf(ptr).Elem().Size())
}

// cMallocArray allocates space to hold n copies of T in the C heap and initializes it to zero.
// It must be manually freed with C.free() by the user.
func cMallocArray[T any](n int) (ptr *T) {
	size := cSizeOf[T]()
	cPtr := (*T)(C.calloc(C.size_t(max(n, 1)), size))
	return cPtr
}

// cDataToSlice converts a C pointer to C allocated array of type T with count elements and return an unsafe
// slice to the data.
func cDataToSlice[T any](data unsafe.Pointer, count int) (result []T) {
	return unsafe.Slice((*T)(data), count)
}

// cStringArray allocates a C array of C strings (char **) with a copy of values.
// It must be freed with cFreeStringArray.
func cStringArray(values []string) **C.char {
	ptr := cMallocArray[*C.char](len(values))
	slice := cDataToSlice[*C.char](unsafe.Pointer(ptr), len(values))
	for ii, value := range values {
		slice[ii] = C.CString(value)
	}
	return ptr
}

// cFreeStringArray frees an array allocated with cStringArray, including its strings.
func cFreeStringArray(ptr **C.char, n int) {
	if ptr == nil {
		return
	}
	for _, str := range cDataToSlice[*C.char](unsafe.Pointer(ptr), n) {
		cFree(str)
	}
	cFree(ptr)
}
