package clean

import (
	"fmt"
	"io"
	"os"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/go-audio/wav"
	flac "github.com/go-flac/go-flac"
)

// mp3Cleaner duplicates the file byte for byte, then empties the
// duplicate's ID3 container. The copy-first order keeps the original
// out of the write path entirely.
type mp3Cleaner struct{}

func (mp3Cleaner) Extensions() []string { return []string{".mp3"} }

func (mp3Cleaner) Clean(src, dst string) (string, error) {
	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	tag, err := id3v2.Open(dst, id3v2.Options{Parse: true})
	if err != nil {
		return "", fmt.Errorf("opening tag container: %w", err)
	}
	defer tag.Close()

	if tag.Count() == 0 {
		return "No tags were present", nil
	}
	tag.DeleteAllFrames()
	if err := tag.Save(); err != nil {
		return "", fmt.Errorf("saving stripped tags: %w", err)
	}
	return "", nil
}

// wavCleaner re-encodes the PCM samples into a fresh RIFF container,
// dropping LIST/INFO and other ancillary chunks by construction.
type wavCleaner struct{}

func (wavCleaner) Extensions() []string { return []string{".wav"} }

func (wavCleaner) Clean(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	d := wav.NewDecoder(in)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return "", fmt.Errorf("decoding wav: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	enc := wav.NewEncoder(out, int(d.SampleRate), int(d.BitDepth), int(d.NumChans), int(d.WavAudioFormat))
	if err := enc.Write(buf); err != nil {
		return "", fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("finalizing wav: %w", err)
	}
	return "", nil
}

// flacCleaner rewrites the stream with the tag-bearing metadata blocks
// (VORBIS_COMMENT, PICTURE, PADDING) filtered out. STREAMINFO and the
// seek/cue structures stay, so the copy plays identically.
type flacCleaner struct{}

func (flacCleaner) Extensions() []string { return []string{".flac"} }

func (flacCleaner) Clean(src, dst string) (string, error) {
	f, err := flac.ParseFile(src)
	if err != nil {
		return "", fmt.Errorf("parsing flac: %w", err)
	}
	kept := f.Meta[:0]
	removed := 0
	for _, block := range f.Meta {
		switch block.Type {
		case flac.VorbisComment, flac.Picture, flac.Padding:
			removed++
		default:
			kept = append(kept, block)
		}
	}
	f.Meta = kept
	if err := f.Save(dst); err != nil {
		return "", fmt.Errorf("writing flac: %w", err)
	}
	if removed == 0 {
		return "No tags were present", nil
	}
	return "", nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func init() {
	register(mp3Cleaner{})
	register(wavCleaner{})
	register(flacCleaner{})
}
