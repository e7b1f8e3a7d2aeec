// ABOUTME: FLAC audio decoder
// ABOUTME: Reader-backed FLAC stream producing 32-bit signed frames
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/Playhead-Media/playhead-go/internal/stream"
	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// FLACStream decodes a FLAC elementary stream from a reader, one FLAC frame
// per pull. Samples widen to 32-bit signed. Submissions are ignored; the
// reader drives the stream.
type FLACStream struct {
	stream *flac.Stream
	done   bool
}

// NewFLACStream opens a FLAC stream and parses its header.
func NewFLACStream(r io.Reader) (*FLACStream, error) {
	st, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create flac decoder: %w", err)
	}
	return &FLACStream{stream: st}, nil
}

// Native returns the stream's decoded format.
func (s *FLACStream) Native() audio.Native {
	info := s.stream.Info
	return audio.Native{
		Format:   audio.FormatS32,
		Layout:   layoutFor(int(info.NChannels)),
		Channels: int(info.NChannels),
		Rate:     int(info.SampleRate),
	}
}

// Submit accepts and ignores the packet; the reader is the data source.
func (s *FLACStream) Submit(pkt stream.InputPacket) error {
	return nil
}

// Pull parses the next FLAC frame, returning (nil, nil) at end of stream.
func (s *FLACStream) Pull() (*audio.Frame, error) {
	if s.done {
		return nil, nil
	}

	fr, err := s.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
			return nil, nil
		}
		return nil, fmt.Errorf("flac decode error: %w", err)
	}

	channels := len(fr.Subframes)
	if channels == 0 {
		return nil, errors.New("flac frame has no subframes")
	}
	samples := len(fr.Subframes[0].Samples)
	shift := uint(32 - s.stream.Info.BitsPerSample)

	out := make([]byte, samples*channels*4)
	for i := 0; i < samples; i++ {
		for ch := 0; ch < channels; ch++ {
			v := fr.Subframes[ch].Samples[i] << shift
			binary.LittleEndian.PutUint32(out[(i*channels+ch)*4:], uint32(v))
		}
	}

	return &audio.Frame{
		Samples:  samples,
		Rate:     int(s.stream.Info.SampleRate),
		Channels: channels,
		Layout:   layoutFor(channels),
		Format:   audio.FormatS32,
		Data:     out,
	}, nil
}

// Close releases decoder resources.
func (s *FLACStream) Close() error {
	return s.stream.Close()
}
