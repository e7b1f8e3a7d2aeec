// ABOUTME: MP3 audio decoder
// ABOUTME: Reader-backed MP3 stream satisfying the pipeline decoder contract
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/Playhead-Media/playhead-go/internal/stream"
	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// mp3FrameSamples is the number of samples per pulled frame, matching one
// MPEG layer III granule pair.
const mp3FrameSamples = 1152

// MP3Stream decodes an MP3 elementary stream from a reader. go-mp3 always
// produces 16-bit stereo output, so frames are S16/stereo at the source
// rate. Submissions are ignored; the reader drives the stream.
type MP3Stream struct {
	decoder *mp3.Decoder
	done    bool
}

// NewMP3Stream opens an MP3 stream for decoding.
func NewMP3Stream(r io.Reader) (*MP3Stream, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}
	return &MP3Stream{decoder: dec}, nil
}

// Native returns the stream's decoded format.
func (s *MP3Stream) Native() audio.Native {
	return audio.Native{
		Format:   audio.FormatS16,
		Layout:   audio.LayoutStereo,
		Channels: 2,
		Rate:     s.decoder.SampleRate(),
	}
}

// Submit accepts and ignores the packet; the reader is the data source.
func (s *MP3Stream) Submit(pkt stream.InputPacket) error {
	return nil
}

// Pull reads the next frame from the stream, returning (nil, nil) at end
// of stream.
func (s *MP3Stream) Pull() (*audio.Frame, error) {
	if s.done {
		return nil, nil
	}

	buf := make([]byte, mp3FrameSamples*2*2)
	n, err := io.ReadFull(s.decoder, buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
			return nil, nil
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("mp3 decode error: %w", err)
		}
		s.done = true
	}
	if n == 0 {
		return nil, nil
	}

	return &audio.Frame{
		Samples:  n / 4,
		Rate:     s.decoder.SampleRate(),
		Channels: 2,
		Layout:   audio.LayoutStereo,
		Format:   audio.FormatS16,
		Data:     buf[:n-n%4],
	}, nil
}

// Close releases decoder resources.
func (s *MP3Stream) Close() error {
	return nil
}
