// ABOUTME: FFmpeg demux source feeding the stream processor
// ABOUTME: Opens an input, finds the best audio stream, reads packets
package ffmpeg

import (
	"context"
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/google/uuid"

	"github.com/Playhead-Media/playhead-go/internal/stream"
	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// Source demuxes one input URL or file and decodes its best audio stream.
type Source struct {
	closer      *astikit.Closer
	formatCtx   *astiav.FormatContext
	audioStream *astiav.Stream
	dec         *Decoder
	id          uuid.UUID
}

// OpenSource opens the input and prepares a decoder for its audio stream.
func OpenSource(input string) (*Source, error) {
	closer := astikit.NewCloser()

	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("ffmpeg: format context is nil")
	}
	closer.Add(fc.Free)

	if err := fc.OpenInput(input, nil, nil); err != nil {
		closer.Close()
		return nil, fmt.Errorf("ffmpeg: opening input failed: %w", err)
	}
	closer.Add(fc.CloseInput)

	if err := fc.FindStreamInfo(nil); err != nil {
		closer.Close()
		return nil, fmt.Errorf("ffmpeg: finding stream info failed: %w", err)
	}

	st, codec, err := fc.FindBestStream(astiav.MediaTypeAudio, -1, -1)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("ffmpeg: finding best audio stream failed: %w", err)
	}
	if st == nil || codec == nil {
		closer.Close()
		return nil, errors.New("ffmpeg: no audio stream found")
	}

	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		closer.Close()
		return nil, errors.New("ffmpeg: codec context is nil")
	}
	closer.Add(cc.Free)

	if err := cc.FromCodecParameters(st.CodecParameters()); err != nil {
		closer.Close()
		return nil, fmt.Errorf("ffmpeg: updating codec context failed: %w", err)
	}
	cc.SetTimeBase(st.TimeBase())

	if err := cc.Open(codec, nil); err != nil {
		closer.Close()
		return nil, fmt.Errorf("ffmpeg: opening codec failed: %w", err)
	}

	return &Source{
		closer:      closer,
		formatCtx:   fc,
		audioStream: st,
		dec:         newDecoder(cc, closer),
		id:          uuid.New(),
	}, nil
}

// Decoder returns the audio decoder bound to this source.
func (s *Source) Decoder() *Decoder {
	return s.dec
}

// StreamIndex returns the demuxer index of the audio stream.
func (s *Source) StreamIndex() int {
	return s.audioStream.Index()
}

// StreamID identifies this source instance.
func (s *Source) StreamID() uuid.UUID {
	return s.id
}

// TimeBase returns the audio stream's time base.
func (s *Source) TimeBase() audio.Rational {
	tb := s.audioStream.TimeBase()
	return audio.Rational{Num: tb.Num(), Den: tb.Den()}
}

// ReadLoop reads packets until EOF or context cancellation, handing audio
// packets to push. Pushed packets are owned by the consumer; rejected ones
// are freed here. The nil end-of-stream marker is pushed at EOF.
func (s *Source) ReadLoop(ctx context.Context, push func(stream.InputPacket) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pkt := astiav.AllocPacket()
		if err := s.formatCtx.ReadFrame(pkt); err != nil {
			pkt.Free()
			if errors.Is(err, astiav.ErrEof) {
				push(nil)
				return nil
			}
			return fmt.Errorf("ffmpeg: reading packet failed: %w", err)
		}

		if pkt.StreamIndex() != s.audioStream.Index() {
			pkt.Free()
			continue
		}

		if !push(pkt) {
			pkt.Free()
		}
	}
}

// Close releases the demuxer and codec resources.
func (s *Source) Close() {
	s.closer.Close()
}
