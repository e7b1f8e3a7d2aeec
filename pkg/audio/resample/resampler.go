// ABOUTME: Sample format, layout and rate conversion engine
// ABOUTME: Linear interpolation with per-frame compensation targets
package resample

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// Config is the conversion tuple a Resampler is bound to. A handle must be
// rebuilt whenever the tuple changes.
type Config struct {
	InFormat   audio.SampleFormat
	InPlanar   bool
	InChannels int
	InRate     int
	OutFormat  audio.SampleFormat
	OutLayout  audio.ChannelLayout
	OutRate    int
}

// Resampler converts frames between sample formats, channel layouts and
// sample counts. One handle is owned by exactly one stream processor.
type Resampler struct {
	cfg    Config
	closed bool

	// pending compensation request, consumed by the next Convert
	compDelta    int
	compDistance int
}

// New configures a resampler for the given conversion tuple.
func New(cfg Config) (*Resampler, error) {
	if cfg.InChannels <= 0 {
		return nil, fmt.Errorf("resample: invalid input channel count %d", cfg.InChannels)
	}
	if cfg.InRate <= 0 || cfg.OutRate <= 0 {
		return nil, fmt.Errorf("resample: invalid rates %d -> %d", cfg.InRate, cfg.OutRate)
	}
	if cfg.InFormat.BytesPerSample() == 0 {
		return nil, fmt.Errorf("resample: unknown input format %s", cfg.InFormat)
	}
	if !cfg.OutFormat.Supported() {
		return nil, fmt.Errorf("resample: unsupported output format %s", cfg.OutFormat)
	}
	if !cfg.OutLayout.Supported() {
		return nil, fmt.Errorf("resample: unsupported output layout %s", cfg.OutLayout)
	}
	return &Resampler{cfg: cfg}, nil
}

// Reconfigure releases the old handle, if any, and returns a fresh one for
// the new tuple.
func Reconfigure(old *Resampler, cfg Config) (*Resampler, error) {
	if old != nil {
		old.Close()
	}
	return New(cfg)
}

// Config returns the conversion tuple the handle was built for.
func (r *Resampler) Config() Config {
	return r.cfg
}

// SetCompensation asks for delta extra (or fewer, when negative) samples
// spread over the next distance output samples. The request is realized by
// the explicit target count of the following Convert call.
func (r *Resampler) SetCompensation(delta, distance int) error {
	if r.closed {
		return fmt.Errorf("resample: handle is closed")
	}
	if distance <= 0 {
		return fmt.Errorf("resample: invalid compensation distance %d", distance)
	}
	if delta > distance || delta < -distance {
		return fmt.Errorf("resample: compensation %d exceeds distance %d", delta, distance)
	}
	r.compDelta = delta
	r.compDistance = distance
	return nil
}

// Convert transforms one frame into wanted output samples in the configured
// output format and layout, returning the packed sample buffer.
func (r *Resampler) Convert(f *audio.Frame, wanted int) ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("resample: handle is closed")
	}
	if f == nil || f.Samples <= 0 {
		return nil, fmt.Errorf("resample: empty input frame")
	}
	if wanted <= 0 {
		return nil, fmt.Errorf("resample: invalid target sample count %d", wanted)
	}
	if f.Format != r.cfg.InFormat || f.Planar != r.cfg.InPlanar ||
		f.Channels != r.cfg.InChannels || f.Rate != r.cfg.InRate {
		return nil, fmt.Errorf("resample: frame does not match configured input %s/%dch/%dHz",
			r.cfg.InFormat, r.cfg.InChannels, r.cfg.InRate)
	}
	if need := audio.BufferSize(f.Format, f.Channels, f.Samples); len(f.Data) < need {
		return nil, fmt.Errorf("resample: short input buffer: %d < %d", len(f.Data), need)
	}

	mixed := r.mix(f)
	stretched := stretch(mixed, r.cfg.OutLayout.Channels(), f.Samples, wanted)
	r.compDelta, r.compDistance = 0, 0

	return encode(stretched, r.cfg.OutFormat), nil
}

// Close releases the handle. Further use returns errors.
func (r *Resampler) Close() {
	r.closed = true
}

// mix decodes the input buffer and folds it into the output channel layout,
// producing interleaved float64 samples in [-1, 1].
func (r *Resampler) mix(f *audio.Frame) []float64 {
	outCh := r.cfg.OutLayout.Channels()
	out := make([]float64, f.Samples*outCh)

	for i := 0; i < f.Samples; i++ {
		switch {
		case f.Channels == outCh:
			for ch := 0; ch < outCh; ch++ {
				out[i*outCh+ch] = readSample(f, ch, i)
			}
		case outCh == 1:
			// downmix: average all input channels
			var sum float64
			for ch := 0; ch < f.Channels; ch++ {
				sum += readSample(f, ch, i)
			}
			out[i] = sum / float64(f.Channels)
		case f.Channels == 1:
			// upmix: duplicate mono into both stereo channels
			v := readSample(f, 0, i)
			out[i*2] = v
			out[i*2+1] = v
		default:
			// more than two input channels to stereo: keep the front pair
			out[i*2] = readSample(f, 0, i)
			out[i*2+1] = readSample(f, 1, i)
		}
	}
	return out
}

// readSample returns channel ch of sample i normalized to [-1, 1].
func readSample(f *audio.Frame, ch, i int) float64 {
	bps := f.Format.BytesPerSample()
	var off int
	if f.Planar {
		off = (ch*f.Samples + i) * bps
	} else {
		off = (i*f.Channels + ch) * bps
	}
	b := f.Data[off:]

	switch f.Format {
	case audio.FormatU8:
		return (float64(b[0]) - 128) / 128
	case audio.FormatS16:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768
	case audio.FormatS32:
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648
	case audio.FormatS64:
		return float64(int64(binary.LittleEndian.Uint64(b))) / 9223372036854775808
	case audio.FormatFlt:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case audio.FormatDbl:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

// stretch resamples interleaved samples from in samples per channel to
// wanted samples per channel using linear interpolation.
func stretch(in []float64, channels, samples, wanted int) []float64 {
	if wanted == samples {
		return in
	}

	out := make([]float64, wanted*channels)
	step := float64(samples) / float64(wanted)

	for i := 0; i < wanted; i++ {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= samples-1 {
			for ch := 0; ch < channels; ch++ {
				out[i*channels+ch] = in[(samples-1)*channels+ch]
			}
			continue
		}
		frac := pos - float64(idx)
		for ch := 0; ch < channels; ch++ {
			a := in[idx*channels+ch]
			b := in[(idx+1)*channels+ch]
			out[i*channels+ch] = a*(1-frac) + b*frac
		}
	}
	return out
}

// encode packs normalized samples into the output sample format.
func encode(in []float64, format audio.SampleFormat) []byte {
	bps := format.BytesPerSample()
	out := make([]byte, len(in)*bps)

	for i, v := range in {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		b := out[i*bps:]

		switch format {
		case audio.FormatU8:
			b[0] = byte(int(v*127) + 128)
		case audio.FormatS16:
			binary.LittleEndian.PutUint16(b, uint16(int16(v*32767)))
		case audio.FormatS32:
			binary.LittleEndian.PutUint32(b, uint32(int32(v*2147483647)))
		case audio.FormatFlt:
			binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		}
	}
	return out
}
