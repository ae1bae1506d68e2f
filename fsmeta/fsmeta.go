// Package fsmeta builds the filesystem metadata section from a single
// stat call plus the platform timestamp and xattr sources.
package fsmeta

import (
	"fmt"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/djherbis/times"

	"rattlescan/logger"
	"rattlescan/report"
)

var statTimes = times.Stat

// Options controls the optional parts of the inspection. A zero Now means
// wall-clock time.
type Options struct {
	CollectXattrs     bool
	XattrMaxValueSize int
	Now               time.Time
}

// Inspect stats the file and renders the filesystem section. A stat
// failure is returned to the caller: without basic file attributes no
// report is meaningful.
func Inspect(path string, opts Options) (*report.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	rep := report.New()
	rep.AddText("Filename", info.Name())
	if abs, err := filepath.Abs(path); err == nil {
		rep.AddText("Full Path", abs)
	} else {
		rep.AddText("Full Path", path)
	}
	rep.AddText("File Size", fmt.Sprintf("%s bytes (%s)", GroupThousands(info.Size()), HumanSize(info.Size())))
	rep.AddText("Permissions (Octal)", octalMode(info.Mode()))
	rep.AddText("Permissions (String)", symbolicMode(info.Mode()))

	if sys, ok := statSys(info); ok {
		rep.AddNumber("Inode Number", float64(sys.Inode))
		rep.AddNumber("Device ID", float64(sys.Device))
		rep.AddNumber("Hard Links", float64(sys.Links))
		rep.AddText("Owner", ownerLabel(sys.UID, lookupUser(sys.UID)))
		rep.AddText("Group", ownerLabel(sys.GID, lookupGroup(sys.GID)))
	}

	mtime := info.ModTime()
	atime := mtime
	atimeKnown := false
	birth := ""
	ctime := ""
	if ts, err := statTimes(path); err == nil {
		atime = ts.AccessTime()
		atimeKnown = true
		if ts.HasBirthTime() {
			birth = FormatTimestamp(ts.BirthTime())
		}
		if ts.HasChangeTime() {
			ctime = FormatTimestamp(ts.ChangeTime())
		}
	} else {
		logger.Debugf("Extended timestamps unavailable for %s: %v", path, err)
	}
	if birth == "" {
		birth = "N/A"
	}
	rep.AddText("Birth Time", birth)
	rep.AddText("Last Modified (mtime)", FormatTimestamp(mtime))
	rep.AddText("Last Accessed (atime)", FormatTimestamp(atime))
	if ctime != "" {
		rep.AddText("Metadata Changed (ctime)", ctime)
	}
	rep.AddText("Age (days)", fmt.Sprintf("%.2f", now.Sub(mtime).Seconds()/86400))

	// An mtime-for-atime fallback would always trip this check, so it
	// only runs against a real access time.
	if atimeKnown && math.Abs(mtime.Sub(atime).Seconds()) < 1 {
		rep.AddWarning("Timestamp Note", "Access and modification times are nearly identical")
	}
	if mtime.After(now) {
		rep.AddWarning("Future Timestamp", "Modification time is in the future!")
	}

	if opts.CollectXattrs {
		if sub := xattrReport(path, opts.XattrMaxValueSize); sub != nil {
			rep.AddNested("Extended Attributes", sub)
		}
	}
	return rep, nil
}

// FormatTimestamp renders a time with millisecond precision plus its Unix
// seconds value.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s (Unix: %d)", t.Format("2006-01-02 15:04:05.000"), t.Unix())
}

// HumanSize scales a byte count through B/KB/MB/GB/TB/PB by powers of
// 1024 with two decimal places.
func HumanSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024.0 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", value)
}

// GroupThousands renders an integer with comma separators.
func GroupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// octalMode renders the last four octal digits of the full mode value,
// covering setuid/setgid/sticky plus the permission bits.
func octalMode(mode os.FileMode) string {
	perm := uint32(mode.Perm())
	if mode&os.ModeSetuid != 0 {
		perm |= 0o4000
	}
	if mode&os.ModeSetgid != 0 {
		perm |= 0o2000
	}
	if mode&os.ModeSticky != 0 {
		perm |= 0o1000
	}
	return fmt.Sprintf("%04o", perm)
}

// symbolicMode renders rwx triplets for owner, group and other.
func symbolicMode(mode os.FileMode) string {
	perm := mode.Perm()
	flags := []struct {
		bit os.FileMode
		c   byte
	}{
		{0o400, 'r'}, {0o200, 'w'}, {0o100, 'x'},
		{0o040, 'r'}, {0o020, 'w'}, {0o010, 'x'},
		{0o004, 'r'}, {0o002, 'w'}, {0o001, 'x'},
	}
	out := make([]byte, 9)
	for i, f := range flags {
		if perm&f.bit != 0 {
			out[i] = f.c
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}

func ownerLabel(id uint64, name string) string {
	if name == "" {
		return strconv.FormatUint(id, 10)
	}
	return fmt.Sprintf("%d (%s)", id, name)
}

func lookupUser(uid uint64) string {
	u, err := user.LookupId(strconv.FormatUint(uid, 10))
	if err != nil {
		return ""
	}
	return u.Username
}

func lookupGroup(gid uint64) string {
	g, err := user.LookupGroupId(strconv.FormatUint(gid, 10))
	if err != nil {
		return ""
	}
	return g.Name
}
