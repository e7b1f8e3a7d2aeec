// ABOUTME: Audio playback sink using the oto library
// ABOUTME: Streams emitted packets to the device with software volume
package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// Output plays emitted packets on the default audio device. It implements
// the stream sink contract: Emit(nil) closes the stream.
type Output struct {
	otoCtx *oto.Context
	player *oto.Player
	pr     *io.PipeReader
	pw     *io.PipeWriter

	caps   audio.Caps
	narrow bool // S32 packets narrowed to S16 for the device
	volume int
	muted  bool
	ready  bool

	frames atomic.Int64
}

// NewOutput creates an uninitialized audio output at full volume.
func NewOutput() *Output {
	return &Output{volume: 100}
}

// Initialize sets up the device for the negotiated caps.
func (o *Output) Initialize(caps audio.Caps) error {
	format, narrow, err := otoFormat(caps.Format)
	if err != nil {
		return err
	}

	op := &oto.NewContextOptions{
		SampleRate:   caps.Rate,
		ChannelCount: caps.Channels,
		Format:       format,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.pr, o.pw = io.Pipe()
	o.otoCtx = ctx
	o.player = ctx.NewPlayer(o.pr)
	o.caps = caps
	o.narrow = narrow
	o.ready = true
	o.player.Play()

	log.Printf("Audio output initialized: %dHz, %d channels, %s",
		caps.Rate, caps.Channels, caps.Format)

	return nil
}

// Emit streams one packet to the device. A nil packet ends the stream.
func (o *Output) Emit(pkt *audio.Packet) {
	if !o.ready {
		return
	}
	if pkt == nil {
		_ = o.pw.Close()
		return
	}

	data := pkt.Data
	if o.narrow {
		data = narrowS32(data)
	}
	data = applyVolume(data, o.caps.Format, o.volume, o.muted)

	if _, err := o.pw.Write(data); err != nil {
		log.Printf("Skip audio packet: %v", err)
	}
}

// FrameProduced counts one produced frame.
func (o *Output) FrameProduced() {
	o.frames.Add(1)
}

// Frames returns how many frames were played so far.
func (o *Output) Frames() int64 {
	return o.frames.Load()
}

// SetVolume sets the volume (0-100).
func (o *Output) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.volume = volume
}

// SetMuted sets mute state.
func (o *Output) SetMuted(muted bool) {
	o.muted = muted
}

// Close stops playback and releases the device.
func (o *Output) Close() {
	if !o.ready {
		return
	}
	_ = o.pw.Close()
	_ = o.player.Close()
	o.otoCtx.Suspend()
	o.ready = false
}

// otoFormat maps a negotiated sample format onto a device format. S32 has
// no device equivalent and is narrowed to S16.
func otoFormat(f audio.SampleFormat) (oto.Format, bool, error) {
	switch f {
	case audio.FormatU8:
		return oto.FormatUnsignedInt8, false, nil
	case audio.FormatS16:
		return oto.FormatSignedInt16LE, false, nil
	case audio.FormatS32:
		return oto.FormatSignedInt16LE, true, nil
	case audio.FormatFlt:
		return oto.FormatFloat32LE, false, nil
	}
	return 0, false, fmt.Errorf("no device format for %s", f)
}

// narrowS32 converts 32-bit signed samples to 16-bit signed.
func narrowS32(data []byte) []byte {
	out := make([]byte, len(data)/2)
	for i := 0; i+4 <= len(data); i += 4 {
		v := int32(binary.LittleEndian.Uint32(data[i:]))
		binary.LittleEndian.PutUint16(out[i/2:], uint16(int16(v>>16)))
	}
	return out
}

// applyVolume scales samples by the software volume.
func applyVolume(data []byte, format audio.SampleFormat, volume int, muted bool) []byte {
	mult := volumeMultiplier(volume, muted)
	if mult == 1.0 {
		return data
	}

	out := make([]byte, len(data))
	switch format {
	case audio.FormatU8:
		for i, b := range data {
			out[i] = byte(int(float64(int(b)-128)*mult) + 128)
		}
	case audio.FormatS16, audio.FormatS32:
		for i := 0; i+2 <= len(data); i += 2 {
			v := int16(binary.LittleEndian.Uint16(data[i:]))
			binary.LittleEndian.PutUint16(out[i:], uint16(int16(float64(v)*mult)))
		}
	case audio.FormatFlt:
		for i := 0; i+4 <= len(data); i += 4 {
			v := math.Float32frombits(binary.LittleEndian.Uint32(data[i:]))
			binary.LittleEndian.PutUint32(out[i:], math.Float32bits(v*float32(mult)))
		}
	default:
		return data
	}
	return out
}

// volumeMultiplier calculates the volume multiplier.
func volumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
