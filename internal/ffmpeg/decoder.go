// ABOUTME: FFmpeg-backed audio decoder adapter
// ABOUTME: Maps the codec send/receive loop onto the Submit/Pull contract
package ffmpeg

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"

	"github.com/Playhead-Media/playhead-go/internal/stream"
	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// Decoder wraps an opened FFmpeg codec context behind the stream.Decoder
// contract. It is owned by one Source.
type Decoder struct {
	codecCtx *astiav.CodecContext
	frame    *astiav.Frame
	native   audio.Native
}

func newDecoder(cc *astiav.CodecContext, closer *astikit.Closer) *Decoder {
	frame := astiav.AllocFrame()
	closer.Add(frame.Free)

	native := audio.Native{
		Layout:   layoutOf(cc.ChannelLayout()),
		Channels: cc.ChannelLayout().Channels(),
		Rate:     cc.SampleRate(),
	}
	if sf, ok := sampleFormats[cc.SampleFormat()]; ok {
		native.Format = sf.format
		native.Planar = sf.planar
	}

	return &Decoder{
		codecCtx: cc,
		frame:    frame,
		native:   native,
	}
}

// Native returns the codec's declared source format and layout.
func (d *Decoder) Native() audio.Native {
	return d.native
}

// Submit sends one encoded packet to the codec.
func (d *Decoder) Submit(pkt stream.InputPacket) error {
	p, ok := pkt.(*astiav.Packet)
	if !ok {
		return fmt.Errorf("ffmpeg: unexpected packet type %T", pkt)
	}
	if err := d.codecCtx.SendPacket(p); err != nil {
		return fmt.Errorf("ffmpeg: sending packet failed: %w", err)
	}
	return nil
}

// Pull receives the next decoded frame, returning (nil, nil) once the codec
// has no more frames for the current submission.
func (d *Decoder) Pull() (*audio.Frame, error) {
	if err := d.codecCtx.ReceiveFrame(d.frame); err != nil {
		if errors.Is(err, astiav.ErrEof) || errors.Is(err, astiav.ErrEagain) {
			return nil, nil
		}
		return nil, fmt.Errorf("ffmpeg: receiving frame failed: %w", err)
	}
	defer d.frame.Unref()

	return frameFrom(d.frame)
}

// frameFrom copies an FFmpeg frame into the pipeline's frame model.
func frameFrom(f *astiav.Frame) (*audio.Frame, error) {
	sf, ok := sampleFormats[f.SampleFormat()]
	if !ok {
		return nil, fmt.Errorf("ffmpeg: unsupported sample format %s", f.SampleFormat())
	}

	data, err := f.Data().Bytes(1)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: reading frame data failed: %w", err)
	}

	pts := f.Pts()

	return &audio.Frame{
		Pts:      pts,
		HasPts:   pts != astiav.NoPtsValue,
		Samples:  f.NbSamples(),
		Rate:     f.SampleRate(),
		Channels: f.ChannelLayout().Channels(),
		Layout:   layoutOf(f.ChannelLayout()),
		Format:   sf.format,
		Planar:   sf.planar,
		Data:     data,
	}, nil
}
