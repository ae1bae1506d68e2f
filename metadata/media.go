package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"

	"rattlescan/report"
)

type mediaExtractor struct{}

func (mediaExtractor) Category() string { return "media" }
func (mediaExtractor) Title() string    { return titles["media"] }

func (mediaExtractor) Extract(path string, maxBytes int64) *report.Report {
	rep := report.New()

	f, err := os.Open(path)
	if err != nil {
		rep.AddError(fmt.Sprintf("Audio/video extraction error: %v", err))
		return rep
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		wavInfo(f, rep)
		return rep
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		if err == tag.ErrNoTagsFound {
			rep.AddNote("Not a recognized audio/video file")
		} else {
			rep.AddError(fmt.Sprintf("Audio/video extraction error: %v", err))
		}
		return rep
	}

	rep.AddText("Tag Format", string(m.Format()))
	raw := m.Raw()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := raw[k].(type) {
		case *tag.Picture:
			rep.AddBinary(k, len(v.Data))
		case string:
			rep.AddText(k, truncateText(v))
		case int:
			rep.AddNumber(k, float64(v))
		default:
			rep.AddText(k, truncateText(fmt.Sprint(v)))
		}
	}
	return rep
}

// wavInfo reads the RIFF header for the technical parameters. WAV files
// carry no ID3 tags, so there is nothing else to report.
func wavInfo(f *os.File, rep *report.Report) {
	d := wav.NewDecoder(f)
	d.ReadInfo()
	if !d.IsValidFile() {
		rep.AddNote("Not a recognized audio/video file")
		return
	}
	if dur, err := d.Duration(); err == nil {
		rep.AddText("Duration", fmt.Sprintf("%.2f seconds", dur.Seconds()))
	}
	if d.AvgBytesPerSec > 0 {
		rep.AddText("Bitrate", fmt.Sprintf("%d kbps", d.AvgBytesPerSec*8/1000))
	}
	rep.AddText("Sample Rate", fmt.Sprintf("%d Hz", d.SampleRate))
	rep.AddNumber("Channels", float64(d.NumChans))
	rep.AddNumber("Bit Depth", float64(d.BitDepth))
}

func init() {
	Register(mediaExtractor{})
}
