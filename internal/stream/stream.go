// ABOUTME: Contracts between the stream processor and its collaborators
// ABOUTME: Encoded packets, decoder, converter and sink interfaces
package stream

import (
	"github.com/Playhead-Media/playhead-go/pkg/audio"
	"github.com/Playhead-Media/playhead-go/pkg/audio/resample"
)

// InputPacket is one encoded media packet awaiting decode. A nil InputPacket
// is the end-of-stream marker. *astiav.Packet satisfies it directly.
type InputPacket interface {
	StreamIndex() int
}

// Decoder turns submitted packets into zero or more decoded frames. Submit
// may fail; the processor then drops that packet silently. Pull returns
// (nil, nil) once no frames remain for the current submission.
type Decoder interface {
	Native() audio.Native
	Submit(pkt InputPacket) error
	Pull() (*audio.Frame, error)
}

// Converter is a configured resampler handle, exclusively owned by one
// processor and rebuilt whenever the conversion tuple changes.
type Converter interface {
	SetCompensation(delta, distance int) error
	Convert(f *audio.Frame, wanted int) ([]byte, error)
	Close()
}

// ConverterFactory builds a converter for a resolved conversion tuple. The
// default factory wraps resample.New.
type ConverterFactory func(cfg resample.Config) (Converter, error)

// Sink receives finished packets. Emit(nil) is the end-of-stream sentinel.
// FrameProduced is raised once per emitted packet.
type Sink interface {
	Emit(pkt *audio.Packet)
	FrameProduced()
}

// releaser is implemented by packets that hold native resources, such as
// *astiav.Packet. The processor releases them once the decoder has a copy.
type releaser interface {
	Free()
}
