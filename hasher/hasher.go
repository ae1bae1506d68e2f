// Package hasher computes the digest set for a file in a single
// sequential read pass feeding all accumulators at once.
package hasher

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"lukechampine.com/blake3"

	"rattlescan/report"
)

// chunkSize is the fixed read granularity of the digest pass.
const chunkSize = 64 * 1024

// displayName maps algorithm identifiers to their report labels.
var displayName = map[string]string{
	"md5":    "MD5",
	"sha1":   "SHA-1",
	"sha256": "SHA-256",
	"blake3": "BLAKE3",
	"xxh64":  "XXH64",
}

func newHash(algo string) hash.Hash {
	switch algo {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	case "sha256":
		return sha256.New()
	case "blake3":
		return blake3.New(32, nil)
	case "xxh64":
		return xxhash.New()
	default:
		return nil
	}
}

// Compute streams the file once through every requested accumulator and
// returns the digests in request order. On any failure the report holds a
// single error field and no digests; partial sets are never produced.
func Compute(path string, algorithms []string) *report.Report {
	rep := report.New()

	type entry struct {
		name string
		h    hash.Hash
	}
	hashers := make([]entry, 0, len(algorithms))
	seen := make(map[string]struct{}, len(algorithms))
	for _, algo := range algorithms {
		if _, ok := seen[algo]; ok {
			continue
		}
		h := newHash(algo)
		if h == nil {
			rep.AddError(fmt.Sprintf("Could not calculate hashes: unsupported algorithm %q", algo))
			return rep
		}
		hashers = append(hashers, entry{name: algo, h: h})
		seen[algo] = struct{}{}
	}

	file, err := os.Open(path)
	if err != nil {
		rep.AddError(fmt.Sprintf("Could not calculate hashes: %v", err))
		return rep
	}
	defer file.Close()

	buffer := make([]byte, chunkSize)
	for {
		n, readErr := file.Read(buffer)
		if n > 0 {
			chunk := buffer[:n]
			for i := range hashers {
				// hash.Hash.Write never returns an error.
				hashers[i].h.Write(chunk)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			rep.AddError(fmt.Sprintf("Could not calculate hashes: %v", readErr))
			return rep
		}
	}

	for i := range hashers {
		name := displayName[hashers[i].name]
		rep.AddText(name, hex.EncodeToString(hashers[i].h.Sum(nil)))
	}
	return rep
}
