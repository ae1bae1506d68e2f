package sensitive

import (
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/exp/mmap"
)

// maxContentBytes caps how much of any file the scan will read.
const maxContentBytes = 10 * 1024 * 1024

// mmapMinSize is the size at which the memory-mapped read path is worth
// the setup cost.
const mmapMinSize = 128 * 1024

var openMmapReader = mmap.Open

// readContent loads up to maxContentBytes of the file, memory-mapping
// large files and falling back to a plain read when mapping fails.
func readContent(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size > maxContentBytes {
		size = maxContentBytes
	}
	if size == 0 {
		return []byte{}, nil
	}

	if info.Size() >= mmapMinSize {
		if content, err := readMapped(path, size); err == nil {
			return content, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content := make([]byte, size)
	n, err := io.ReadFull(f, content)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return content[:n], nil
}

func readMapped(path string, size int64) ([]byte, error) {
	r, err := openMmapReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	buf := make([]byte, size)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// textLike reports whether the sample reads as text: valid UTF-8, no NUL
// bytes and at most 10% control characters.
func textLike(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if !utf8.Valid(sample) {
		return false
	}
	var control int
	for _, b := range sample {
		if b == 0 {
			return false
		}
		if b < 0x09 || (b > 0x0D && b < 0x20) {
			control++
		}
	}
	return control <= len(sample)/10
}
