// Package audio probes local audio files for catalog metadata.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// bytesPerFrame is the size of one decoded sample frame: 16-bit stereo.
const bytesPerFrame = 4

// ErrNoAudio is returned when a stream decodes to zero samples.
var ErrNoAudio = errors.New("audio contains no samples")

// Duration decodes an MP3 stream and returns its length in whole seconds.
// Seekable readers are measured without decoding the full stream.
func Duration(r io.Reader) (int, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}

	length := decoder.Length()
	if length < 0 {
		length, err = io.Copy(io.Discard, decoder)
		if err != nil {
			return 0, fmt.Errorf("read mp3: %w", err)
		}
	}
	return seconds(length, decoder.SampleRate())
}

// FileDuration opens path and returns the duration of the MP3 it holds.
func FileDuration(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	d, err := Duration(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func seconds(decodedBytes int64, sampleRate int) (int, error) {
	if decodedBytes <= 0 || sampleRate <= 0 {
		return 0, ErrNoAudio
	}
	frames := float64(decodedBytes) / bytesPerFrame
	return int(math.Round(frames / float64(sampleRate))), nil
}
