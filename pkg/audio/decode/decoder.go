// ABOUTME: Decoder interface definition and stream adapter
// ABOUTME: Bridges chunk decoders onto the pipeline's submit/pull contract
package decode

import (
	"fmt"

	"github.com/Playhead-Media/playhead-go/internal/stream"
	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// Decoder decodes one encoded chunk into one PCM frame.
type Decoder interface {
	// Decode converts encoded audio data to a decoded frame.
	Decode(data []byte) (*audio.Frame, error)

	// Close releases decoder resources.
	Close() error
}

// Chunk is an encoded elementary-stream packet for the pipeline queue.
type Chunk struct {
	Index int
	Data  []byte
}

// StreamIndex returns the chunk's stream index.
func (c *Chunk) StreamIndex() int {
	return c.Index
}

// Elementary adapts a chunk decoder to the stream decoder contract: each
// submitted chunk yields at most one pulled frame.
type Elementary struct {
	dec     Decoder
	native  audio.Native
	pending *audio.Frame
}

// NewElementary wraps a chunk decoder declaring the given native format.
func NewElementary(dec Decoder, native audio.Native) *Elementary {
	return &Elementary{
		dec:    dec,
		native: native,
	}
}

// Native returns the declared source format.
func (e *Elementary) Native() audio.Native {
	return e.native
}

// Submit decodes one chunk and stages its frame for Pull.
func (e *Elementary) Submit(pkt stream.InputPacket) error {
	c, ok := pkt.(*Chunk)
	if !ok {
		return fmt.Errorf("decode: unexpected packet type %T", pkt)
	}

	f, err := e.dec.Decode(c.Data)
	if err != nil {
		return fmt.Errorf("decode: decoding chunk failed: %w", err)
	}
	e.pending = f
	return nil
}

// Pull returns the staged frame, then (nil, nil) until the next submission.
func (e *Elementary) Pull() (*audio.Frame, error) {
	f := e.pending
	e.pending = nil
	return f, nil
}

// Close releases the wrapped decoder.
func (e *Elementary) Close() error {
	return e.dec.Close()
}
