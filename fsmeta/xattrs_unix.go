//go:build !windows

package fsmeta

import (
	"encoding/base64"
	"errors"

	"golang.org/x/sys/unix"

	"rattlescan/report"
)

// xattrReport lists extended attributes as a sub-report, values base64
// encoded and capped at maxValueSize bytes. Filesystems without xattr
// support and files without attributes yield nil.
func xattrReport(path string, maxValueSize int) *report.Report {
	size, err := unix.Listxattr(path, nil)
	if err != nil {
		if errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EOPNOTSUPP) {
			return nil
		}
		return nil
	}
	if size <= 0 {
		return nil
	}
	buf := make([]byte, size)
	n, err := unix.Listxattr(path, buf)
	if err != nil {
		return nil
	}
	buf = buf[:n]

	sub := report.New()
	for len(buf) > 0 {
		i := 0
		for i < len(buf) && buf[i] != 0 {
			i++
		}
		name := string(buf[:i])
		if name != "" {
			sub.AddText(name, xattrValue(path, name, maxValueSize))
		}
		if i+1 >= len(buf) {
			break
		}
		buf = buf[i+1:]
	}
	if sub.Len() == 0 {
		return nil
	}
	return sub
}

func xattrValue(path, name string, maxValueSize int) string {
	if maxValueSize == 0 {
		return ""
	}
	size, err := unix.Getxattr(path, name, nil)
	if err != nil || size <= 0 {
		return ""
	}
	if maxValueSize > 0 && size > maxValueSize {
		size = maxValueSize
	}
	buf := make([]byte, size)
	n, err := unix.Getxattr(path, name, buf)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf[:n])
}
