//go:build !unix && !windows

package sys

import "os"

func GetSysPageSize() int {
	return os.Getpagesize()
}
