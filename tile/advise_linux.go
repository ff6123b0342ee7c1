//go:build linux

package tile

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseRandom tells the kernel that tile reads do not follow file order.
func adviseRandom(f *os.File) error {
	return unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}
