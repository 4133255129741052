//go:build windows

package sys

import (
	"golang.org/x/sys/windows"
	"unsafe"
)

// SYSTEM_INFO defines the Windows SYSTEM_INFO structure.
type SYSTEM_INFO struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

// getSystemInfoProc is the lazy-loaded GetSystemInfo function.
var getSystemInfoProc = windows.NewLazySystemDLL("kernel32").NewProc("GetSystemInfo")

// GetSystemInfo retrieves system information.
func GetSystemInfo() (si SYSTEM_INFO, err error) {
	err = getSystemInfoProc.Find()
	if err != nil {
		return
	}
	// GetSystemInfo has no return value, the struct is always filled
	getSystemInfoProc.Call(uintptr(unsafe.Pointer(&si)))
	return si, nil
}

// GetSysPageSize returns the system's memory page size.
func GetSysPageSize() int {
	si, err := GetSystemInfo()
	if err != nil || si.PageSize == 0 {
		// Fallback to a default page size (4096 is common on Windows)
		return 4096
	}
	return int(si.PageSize)
}
