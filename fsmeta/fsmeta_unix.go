//go:build !windows

package fsmeta

import (
	"os"
	"syscall"
)

type sysStat struct {
	Inode  uint64
	Device uint64
	Links  uint64
	UID    uint64
	GID    uint64
}

func statSys(info os.FileInfo) (sysStat, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat == nil {
		return sysStat{}, false
	}
	return sysStat{
		Inode:  uint64(stat.Ino),
		Device: uint64(stat.Dev),
		Links:  uint64(stat.Nlink),
		UID:    uint64(stat.Uid),
		GID:    uint64(stat.Gid),
	}, true
}
