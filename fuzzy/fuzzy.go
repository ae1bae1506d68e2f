// Package fuzzy provides similarity digests behind a name registry, so
// algorithms register themselves and callers degrade gracefully when one
// is absent.
package fuzzy

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/glaslos/tlsh"
)

// Hasher is a fuzzy hashing implementation.
type Hasher interface {
	Name() string
	HashFile(path string) (string, error)
}

var registry = map[string]Hasher{}

func Register(h Hasher) {
	if h == nil {
		return
	}
	registry[strings.ToLower(h.Name())] = h
}

func Lookup(name string) (Hasher, bool) {
	h, ok := registry[strings.ToLower(name)]
	return h, ok
}

// Available lists registered algorithm names, sorted for stable output.
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type tlshHasher struct{}

func (tlshHasher) Name() string { return "tlsh" }

func (tlshHasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash, err := tlsh.HashReader(bufio.NewReader(f))
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

func init() {
	Register(tlshHasher{})
}
