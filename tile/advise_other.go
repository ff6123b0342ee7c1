//go:build !linux

package tile

import "os"

func adviseRandom(_ *os.File) error {
	return nil
}
