// ABOUTME: Channel-backed sink for wiring processors into pipelines
// ABOUTME: Delivers packets on a channel and counts produced frames
package stream

import (
	"sync/atomic"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// ChanSink delivers emitted packets on a channel. The nil end-of-stream
// sentinel is forwarded as-is, so consumers can range until nil.
type ChanSink struct {
	packets chan *audio.Packet
	frames  atomic.Int64
}

// NewChanSink creates a sink buffering up to depth packets.
func NewChanSink(depth int) *ChanSink {
	return &ChanSink{
		packets: make(chan *audio.Packet, depth),
	}
}

// Emit hands a finished packet to the consumer, blocking when the buffer
// is full.
func (s *ChanSink) Emit(pkt *audio.Packet) {
	s.packets <- pkt
}

// FrameProduced counts one produced frame.
func (s *ChanSink) FrameProduced() {
	s.frames.Add(1)
}

// Packets returns the delivery channel.
func (s *ChanSink) Packets() <-chan *audio.Packet {
	return s.packets
}

// Frames returns how many frames were produced so far.
func (s *ChanSink) Frames() int64 {
	return s.frames.Load()
}
