// ABOUTME: Audio fundamentals package providing core types
// ABOUTME: Defines sample formats, layouts, caps, frames and packets
// Package audio provides the fundamental types shared by the playhead
// pipeline.
//
// This package defines the data model flowing between decoders, the stream
// processor and sinks:
//   - SampleFormat / ChannelLayout: semantic sample and channel descriptions
//   - Caps: a negotiated stream configuration
//   - Frame: one decoded chunk of audio, packed or planar
//   - Packet: a finished, timestamp-aligned audio packet
//
// Example:
//
//	caps := audio.Caps{
//	    Valid:    true,
//	    Format:   audio.FormatS16,
//	    BitDepth: 16,
//	    Channels: 2,
//	    Rate:     48000,
//	    Layout:   audio.LayoutStereo,
//	}
package audio
