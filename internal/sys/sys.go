// Package sys exposes the few platform facts the node pool sizes itself by.
package sys

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the cache line size of the running CPU as known to x/sys/cpu.
// Zero-size pads (unsupported platforms) fall back to 64.
func CacheLineSize() int {
	n := int(unsafe.Sizeof(cpu.CacheLinePad{}))
	if n == 0 {
		return 64
	}
	return n
}
