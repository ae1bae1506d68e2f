package metadata

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"rattlescan/report"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// binaryLimit is the payload size above which tag values are summarized
// instead of decoded.
const binaryLimit = 100

type exifExtractor struct{}

func (exifExtractor) Category() string { return "image" }
func (exifExtractor) Title() string    { return titles["image"] }

func (exifExtractor) Extract(path string, maxBytes int64) *report.Report {
	f, err := os.Open(path)
	if err != nil {
		rep := report.New()
		rep.AddError(fmt.Sprintf("EXIF extraction error: %v", err))
		return rep
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		// Not decodable as an image despite the extension: no report.
		return nil
	}

	rep := report.New()
	rep.AddText("Image Format", strings.ToUpper(format))
	rep.AddText("Image Mode", colorModeName(cfg.ColorModel))
	rep.AddText("Image Size", fmt.Sprintf("%d x %d pixels", cfg.Width, cfg.Height))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		rep.AddError(fmt.Sprintf("EXIF extraction error: %v", err))
		return rep
	}
	var reader io.Reader = f
	if maxBytes > 0 {
		reader = io.LimitReader(f, maxBytes)
	}
	x, err := exif.Decode(reader)
	if err != nil {
		rep.AddText("EXIF Status", "No EXIF data found")
		return rep
	}

	collector := &tagCollector{}
	if err := x.Walk(collector); err != nil {
		rep.AddError(fmt.Sprintf("EXIF extraction error: %v", err))
		return rep
	}
	// Walk order follows an internal map; sort for run-to-run stability.
	sort.Slice(collector.tags, func(i, j int) bool {
		return collector.tags[i].name < collector.tags[j].name
	})

	gps := report.New()
	if lat, long, err := x.LatLong(); err == nil {
		gps.AddText("Position", fmt.Sprintf("%.6f, %.6f", lat, long))
	}
	for _, entry := range collector.tags {
		if strings.HasPrefix(entry.name, "GPS") {
			gps.Add(entry.name, entry.value)
		} else {
			rep.Add(entry.name, entry.value)
		}
	}
	if gps.Len() > 0 {
		rep.AddNested("GPS Data", gps)
	}
	return rep
}

type taggedField struct {
	name  string
	value report.Value
}

type tagCollector struct {
	tags []taggedField
}

func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.tags = append(c.tags, taggedField{name: string(name), value: tagValue(tag)})
	return nil
}

// tagValue converts one EXIF tag: large undefined payloads become binary
// summaries, small ones best-effort text, long strings are truncated.
func tagValue(tag *tiff.Tag) report.Value {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return report.Text(tag.String())
		}
		return report.Text(truncateText(s))
	case tiff.UndefVal, tiff.OtherVal:
		if len(tag.Val) > binaryLimit {
			return report.Binary(len(tag.Val))
		}
		return report.Text(decodeBestEffort(tag.Val))
	case tiff.IntVal:
		if n, err := tag.Int(0); err == nil && tag.Count == 1 {
			return report.Number(float64(n))
		}
		return report.Text(truncateText(tag.String()))
	default:
		return report.Text(truncateText(tag.String()))
	}
}

// decodeBestEffort keeps the printable runes of a small payload.
func decodeBestEffort(b []byte) string {
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError && r >= 0x20 {
			sb.WriteRune(r)
		}
		b = b[size:]
	}
	return sb.String()
}

func colorModeName(model color.Model) string {
	switch model {
	case color.RGBAModel:
		return "RGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel:
		return "YCbCr"
	case color.NYCbCrAModel:
		return "NYCbCrA"
	case color.AlphaModel:
		return "Alpha"
	}
	if _, ok := model.(color.Palette); ok {
		return "Paletted"
	}
	return "Unknown"
}

func init() {
	Register(exifExtractor{})
}
