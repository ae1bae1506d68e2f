// Package systeminfo reports the host and volume context around the
// inspected file. Every probe degrades to a note so a sandboxed run
// still produces the rest of the report.
package systeminfo

import (
	"fmt"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"

	"rattlescan/fsmeta"
	"rattlescan/logger"
	"rattlescan/report"
)

// Collect probes the host identity and the usage of the volume holding
// path.
func Collect(path string) *report.Report {
	rep := report.New()

	info, err := host.Info()
	if err != nil {
		logger.Warnf("Failed to gather host info: %v", err)
		rep.AddNote("Host information unavailable")
	} else {
		rep.AddText("Hostname", info.Hostname)
		rep.AddText("Operating System", fmt.Sprintf("%s (%s %s)", info.OS, info.Platform, info.PlatformVersion))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	usage, err := disk.Usage(filepath.Dir(abs))
	if err != nil {
		logger.Warnf("Failed to gather volume usage: %v", err)
		rep.AddNote("Volume information unavailable")
		return rep
	}
	rep.AddText("Volume Path", usage.Path)
	rep.AddText("Filesystem Type", usage.Fstype)
	rep.AddText("Volume Size", fsmeta.HumanSize(int64(usage.Total)))
	rep.AddText("Volume Free", fsmeta.HumanSize(int64(usage.Free)))
	rep.AddText("Volume Used", fmt.Sprintf("%.1f%%", usage.UsedPercent))
	return rep
}
