// ABOUTME: Core audio data model shared across the pipeline
// ABOUTME: Sample formats, channel layouts, caps, frames and packets
package audio

import "github.com/google/uuid"

// SampleFormat identifies how one PCM sample is stored.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatU8                   // 8-bit unsigned
	FormatS16                  // 16-bit signed
	FormatS32                  // 32-bit signed
	FormatS64                  // 64-bit signed
	FormatFlt                  // 32-bit float
	FormatDbl                  // 64-bit float
)

// BytesPerSample returns the storage size of one sample, 0 for unknown.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS32, FormatFlt:
		return 4
	case FormatS64, FormatDbl:
		return 8
	}
	return 0
}

// Supported reports whether the pipeline can produce this format on its
// output side. Unsupported formats fall back to FormatFlt.
func (f SampleFormat) Supported() bool {
	switch f {
	case FormatU8, FormatS16, FormatS32, FormatFlt:
		return true
	}
	return false
}

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16"
	case FormatS32:
		return "s32"
	case FormatS64:
		return "s64"
	case FormatFlt:
		return "flt"
	case FormatDbl:
		return "dbl"
	}
	return "unknown"
}

// ChannelLayout is a named arrangement of audio channels.
type ChannelLayout int

const (
	LayoutNone ChannelLayout = iota
	LayoutMono
	LayoutStereo
)

// Channels returns the number of channels in the layout.
func (l ChannelLayout) Channels() int {
	switch l {
	case LayoutMono:
		return 1
	case LayoutStereo:
		return 2
	}
	return 0
}

// Supported reports whether the pipeline can produce this layout on its
// output side. Unsupported layouts fall back to LayoutStereo.
func (l ChannelLayout) Supported() bool {
	return l == LayoutMono || l == LayoutStereo
}

func (l ChannelLayout) String() string {
	switch l {
	case LayoutMono:
		return "mono"
	case LayoutStereo:
		return "stereo"
	}
	return "none"
}

// Rational is an exact time base expressed as Num/Den seconds per tick.
type Rational struct {
	Num int
	Den int
}

func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Caps describes a negotiated audio stream configuration.
type Caps struct {
	Valid    bool
	Format   SampleFormat
	BitDepth int // bits per sample
	Channels int
	Rate     int
	Layout   ChannelLayout
	Samples  int // samples per packet, 0 when not fixed
	Align    bool
}

// Native is the source format a decoder declares before any frame has been
// decoded. It feeds the capability query and output negotiation.
type Native struct {
	Format   SampleFormat
	Planar   bool
	Layout   ChannelLayout
	Channels int
	Rate     int
}

// Frame is one decoded chunk of audio handed to the stream processor. Data
// holds the raw samples: interleaved for packed formats, plane after plane
// for planar ones.
type Frame struct {
	Pts      int64
	HasPts   bool // false when upstream carried no timestamp
	Samples  int  // samples per channel
	Rate     int
	Channels int
	Layout   ChannelLayout
	Format   SampleFormat
	Planar   bool
	Data     []byte
}

// Packet is a finished, timestamp-aligned audio packet. Ownership moves to
// the sink on emission.
type Packet struct {
	Caps        Caps
	Data        []byte
	Pts         int64
	TimeBase    Rational
	StreamIndex int
	StreamID    uuid.UUID
}

// Duration returns the packet length in seconds.
func (p *Packet) Duration() float64 {
	if p.Caps.Rate == 0 {
		return 0
	}
	return float64(p.Caps.Samples) / float64(p.Caps.Rate)
}

// BufferSize returns the byte size of a packed sample buffer holding
// samples samples for channels channels.
func BufferSize(format SampleFormat, channels, samples int) int {
	return format.BytesPerSample() * channels * samples
}
