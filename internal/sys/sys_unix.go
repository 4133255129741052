//go:build unix

package sys

import (
	"golang.org/x/sys/unix"
)

func GetSysPageSize() int {
	return unix.Getpagesize()
}
