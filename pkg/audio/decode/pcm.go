// ABOUTME: PCM audio decoder
// ABOUTME: Turns 16-bit and 24-bit little-endian PCM chunks into frames
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// PCMDecoder decodes raw little-endian PCM chunks.
type PCMDecoder struct {
	rate     int
	channels int
	bitDepth int
}

// NewPCM creates a PCM decoder for 16-bit or 24-bit input.
func NewPCM(rate, channels, bitDepth int) (*PCMDecoder, error) {
	if rate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid pcm parameters: %dHz, %d channels", rate, channels)
	}
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}

	return &PCMDecoder{
		rate:     rate,
		channels: channels,
		bitDepth: bitDepth,
	}, nil
}

// Decode converts one PCM chunk into a frame. 24-bit input widens to
// 32-bit signed samples.
func (d *PCMDecoder) Decode(data []byte) (*audio.Frame, error) {
	if d.bitDepth == 24 {
		numSamples := len(data) / 3
		out := make([]byte, numSamples*4)
		for i := 0; i < numSamples; i++ {
			v := sampleFrom24Bit(data[i*3], data[i*3+1], data[i*3+2])
			binary.LittleEndian.PutUint32(out[i*4:], uint32(v<<8))
		}
		return d.frame(audio.FormatS32, out, numSamples/d.channels), nil
	}

	numSamples := len(data) / 2
	out := make([]byte, numSamples*2)
	copy(out, data)
	return d.frame(audio.FormatS16, out, numSamples/d.channels), nil
}

// Close releases resources.
func (d *PCMDecoder) Close() error {
	return nil
}

func (d *PCMDecoder) frame(format audio.SampleFormat, data []byte, samples int) *audio.Frame {
	return &audio.Frame{
		Samples:  samples,
		Rate:     d.rate,
		Channels: d.channels,
		Layout:   layoutFor(d.channels),
		Format:   format,
		Data:     data,
	}
}

// Native returns the format frames of this decoder will carry.
func (d *PCMDecoder) Native() audio.Native {
	format := audio.FormatS16
	if d.bitDepth == 24 {
		format = audio.FormatS32
	}
	return audio.Native{
		Format:   format,
		Layout:   layoutFor(d.channels),
		Channels: d.channels,
		Rate:     d.rate,
	}
}

// sampleFrom24Bit reconstructs a signed 24-bit little-endian sample.
func sampleFrom24Bit(b0, b1, b2 byte) int32 {
	val := int32(b0) | int32(b1)<<8 | int32(b2)<<16
	if val&0x800000 != 0 {
		val |= ^int32(0xFFFFFF)
	}
	return val
}

func layoutFor(channels int) audio.ChannelLayout {
	switch channels {
	case 1:
		return audio.LayoutMono
	case 2:
		return audio.LayoutStereo
	}
	return audio.LayoutNone
}
