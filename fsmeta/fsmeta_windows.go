//go:build windows

package fsmeta

import "os"

type sysStat struct {
	Inode  uint64
	Device uint64
	Links  uint64
	UID    uint64
	GID    uint64
}

// Inode, device and ownership numbers are a unix concept; the section
// simply omits them on Windows.
func statSys(info os.FileInfo) (sysStat, bool) {
	return sysStat{}, false
}
