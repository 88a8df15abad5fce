// Package decode turns encoded audio files into PCM assets, dispatching
// on file extension to the appropriate codec.
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/ColonelBlimp/soundmix/internal/asset"
)

// ErrUnsupportedFormat indicates a file extension with no registered codec.
var ErrUnsupportedFormat = errors.New("decode: unsupported file format")

// streamChunk is the number of stereo frames read from the codec per
// Stream call.
const streamChunk = 2048

// codec decodes r into a beep stream and its format.
type codec func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// codecsByExt maps lowercase file extensions to their decoder. Every
// entry's Streamer always yields stereo [2]float64 frames regardless of
// the source's channel count, so decoded assets are always stereo.
var codecsByExt = map[string]codec{
	".wav":  wav.Decode,
	".flac": flac.Decode,
	".mp3":  mp3.Decode,
}

// File reads path and decodes it into a stereo asset, choosing a codec
// by the file's extension. The returned asset's sample rate is the
// file's native rate; callers that need a different output rate rely on
// the mixer's pitch-driven resampling rather than a separate resample
// step here.
func File(path string) (*asset.Asset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := codecsByExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode: open %s: %w", path, err)
	}

	stream, format, err := dec(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, err)
	}
	defer stream.Close()

	frames, err := drain(stream)
	if err != nil {
		return nil, fmt.Errorf("decode: %s: %w", path, err)
	}

	a, err := asset.NewFromStereo(int(format.SampleRate), frames)
	if err != nil {
		return nil, fmt.Errorf("decode: %s: %w", path, err)
	}
	return a, nil
}

// drain reads every frame from s into an interleaved L/R float32 slice.
func drain(s beep.Streamer) ([]float32, error) {
	buf := make([][2]float64, streamChunk)
	var out []float32

	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, float32(buf[i][0]), float32(buf[i][1]))
		}
		if !ok {
			break
		}
	}
	if st, ok := s.(interface{ Err() error }); ok {
		if err := st.Err(); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, errors.New("decode: empty stream")
	}
	return out, nil
}
