// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Opus packets into 16-bit PCM frames
package decode

import (
	"encoding/binary"
	"fmt"

	"gopkg.in/hraban/opus.v2"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// maxOpusFrameSamples is the largest Opus frame: 120ms at 48kHz.
const maxOpusFrameSamples = 5760

// OpusDecoder decodes Opus packets.
type OpusDecoder struct {
	decoder  *opus.Decoder
	rate     int
	channels int
}

// NewOpus creates an Opus decoder for the given rate and channel count.
func NewOpus(rate, channels int) (*OpusDecoder, error) {
	dec, err := opus.NewDecoder(rate, channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{
		decoder:  dec,
		rate:     rate,
		channels: channels,
	}, nil
}

// Decode converts one Opus packet into a 16-bit PCM frame.
func (d *OpusDecoder) Decode(data []byte) (*audio.Frame, error) {
	pcm16 := make([]int16, maxOpusFrameSamples*d.channels)

	n, err := d.decoder.Decode(data, pcm16)
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}

	out := make([]byte, n*d.channels*2)
	for i, s := range pcm16[:n*d.channels] {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}

	return &audio.Frame{
		Samples:  n,
		Rate:     d.rate,
		Channels: d.channels,
		Layout:   layoutFor(d.channels),
		Format:   audio.FormatS16,
		Data:     out,
	}, nil
}

// Close releases decoder resources.
func (d *OpusDecoder) Close() error {
	return nil
}

// Native returns the format frames of this decoder will carry.
func (d *OpusDecoder) Native() audio.Native {
	return audio.Native{
		Format:   audio.FormatS16,
		Layout:   layoutFor(d.channels),
		Channels: d.channels,
		Rate:     d.rate,
	}
}
