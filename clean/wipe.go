package clean

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"rattlescan/logger"
)

// wipeChunkSize is the write granularity for overwrite passes.
const wipeChunkSize = 64 * 1024

// PassSpec describes one overwrite pass: either cryptographically
// random content or a uniform byte fill.
type PassSpec struct {
	Random bool
	Fill   byte
}

func (p PassSpec) describe() string {
	if p.Random {
		return "random"
	}
	return fmt.Sprintf("0x%02X fill", p.Fill)
}

// WipePasses builds the pass sequence for a given count. Pass index 1
// is always the fixed 0xFF fill; every other pass writes random bytes.
// For the default count of 3 this is the classic random, fixed, random
// ordering.
func WipePasses(count int) []PassSpec {
	if count < 1 {
		count = 1
	}
	passes := make([]PassSpec, count)
	for i := range passes {
		if i == 1 {
			passes[i] = PassSpec{Fill: 0xFF}
		} else {
			passes[i] = PassSpec{Random: true}
		}
	}
	return passes
}

// WipeTarget is the durable storage a wipe writes through. *os.File
// satisfies it; tests inject an in-memory fake to verify the pass
// sequence without disk I/O.
type WipeTarget interface {
	io.WriteSeeker
	Sync() error
}

// Wipe runs the pass sequence over size bytes of the target, forcing a
// flush after every pass. The limiter throttles chunk writes when
// non-nil; the bar, when non-nil, tracks total bytes across all passes.
func Wipe(target WipeTarget, size int64, passes []PassSpec, limiter *rate.Limiter, bar *progressbar.ProgressBar) error {
	chunk := make([]byte, wipeChunkSize)
	for i, pass := range passes {
		if _, err := target.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("pass %d: %w", i, err)
		}
		if !pass.Random {
			for j := range chunk {
				chunk[j] = pass.Fill
			}
		}
		remaining := size
		for remaining > 0 {
			n := int64(len(chunk))
			if remaining < n {
				n = remaining
			}
			if pass.Random {
				if _, err := rand.Read(chunk[:n]); err != nil {
					return fmt.Errorf("pass %d: %w", i, err)
				}
			}
			if limiter != nil {
				if err := limiter.Wait(context.Background()); err != nil {
					return fmt.Errorf("pass %d: %w", i, err)
				}
			}
			if _, err := target.Write(chunk[:n]); err != nil {
				return fmt.Errorf("pass %d: %w", i, err)
			}
			remaining -= n
			if bar != nil {
				bar.Add64(n)
			}
		}
		if err := target.Sync(); err != nil {
			return fmt.Errorf("pass %d: %w", i, err)
		}
		logger.Debugf("Wipe pass %d (%s) complete", i, pass.describe())
	}
	return nil
}

// secureWipe overwrites the file in place and unlinks it. The passes
// always run to completion before the unlink; an interrupted wipe
// leaves an overwritten but still-present file.
func secureWipe(path string, opts Options) Outcome {
	info, err := os.Stat(path)
	if err != nil {
		return Outcome{Message: fmt.Sprintf("Wipe failed: %v", err)}
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return Outcome{Message: fmt.Sprintf("Wipe failed: %v", err)}
	}

	passes := WipePasses(opts.WipePasses)
	var limiter *rate.Limiter
	if opts.MaxIOPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.MaxIOPerSecond), opts.MaxIOPerSecond)
	}
	var bar *progressbar.ProgressBar
	if opts.ShowProgress {
		bar = progressbar.NewOptions64(info.Size()*int64(len(passes)),
			progressbar.OptionSetDescription("Wiping"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionFullWidth(),
		)
	}

	if err := Wipe(f, info.Size(), passes, limiter, bar); err != nil {
		f.Close()
		return Outcome{Message: fmt.Sprintf("Wipe failed: %v", err)}
	}
	if err := f.Close(); err != nil {
		return Outcome{Message: fmt.Sprintf("Wipe failed: %v", err)}
	}
	if err := os.Remove(path); err != nil {
		return Outcome{Message: fmt.Sprintf("Wipe failed after overwrite: %v", err)}
	}
	return Outcome{
		Success: true,
		Message: fmt.Sprintf("File overwritten with %d passes and deleted", len(passes)),
	}
}
