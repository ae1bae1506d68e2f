//go:build windows

package fsmeta

import "rattlescan/report"

func xattrReport(path string, maxValueSize int) *report.Report {
	return nil
}
