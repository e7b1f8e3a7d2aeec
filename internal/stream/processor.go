// ABOUTME: Per-stream audio processor orchestrating the decode pipeline
// ABOUTME: Timestamp repair, sync estimation, negotiation and emission
package stream

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/Playhead-Media/playhead-go/internal/avsync"
	"github.com/Playhead-Media/playhead-go/pkg/audio"
	"github.com/Playhead-Media/playhead-go/pkg/audio/resample"
)

// Options configures a Processor.
type Options struct {
	StreamIndex int
	StreamID    uuid.UUID
	TimeBase    audio.Rational

	// QueueDepth and QueuePolicy shape the ingestion queue. Zero depth
	// selects DefaultQueueDepth.
	QueueDepth  int
	QueuePolicy Policy

	// Factory builds converter handles; nil selects the resample engine.
	Factory ConverterFactory
}

// Processor is the audio branch of one media stream. It repairs missing
// timestamps, keeps the stream in sync with the shared clock, negotiates the
// output format and emits converted packets to the sink. All processing
// happens on a single goroutine; only ClockSkew and Caps may be called from
// outside it.
type Processor struct {
	dec     Decoder
	sink    Sink
	est     *avsync.Estimator
	opts    Options
	queue   *Queue
	factory ConverterFactory

	conv    Converter
	convCfg resample.Config

	nextPts int64

	mu   sync.RWMutex
	skew float64
}

// NewProcessor wires a processor to its decoder, sink and shared clock.
func NewProcessor(dec Decoder, sink Sink, clk avsync.Clock, opts Options) *Processor {
	factory := opts.Factory
	if factory == nil {
		factory = func(cfg resample.Config) (Converter, error) {
			return resample.New(cfg)
		}
	}

	return &Processor{
		dec:     dec,
		sink:    sink,
		est:     avsync.NewEstimator(clk),
		opts:    opts,
		queue:   NewQueue(opts.QueueDepth, opts.QueuePolicy),
		factory: factory,
	}
}

// Caps returns the negotiated output configuration, derived from the
// decoder's declared native format and layout.
func (p *Processor) Caps() audio.Caps {
	native := p.dec.Native()
	format, layout := negotiate(native.Format, native.Layout)

	return audio.Caps{
		Valid:    true,
		Format:   format,
		BitDepth: 8 * format.BytesPerSample(),
		Channels: layout.Channels(),
		Rate:     native.Rate,
		Layout:   layout,
		Align:    false,
	}
}

// Enqueue pushes an encoded packet toward the processing goroutine and
// reports whether it was accepted. nil marks end of stream.
func (p *Processor) Enqueue(ctx context.Context, pkt InputPacket) bool {
	return p.queue.Push(ctx, pkt)
}

// Run drains the ingestion queue until the end-of-stream marker has been
// processed or the context is done.
func (p *Processor) Run(ctx context.Context) error {
	for {
		pkt, ok := p.queue.Pop(ctx)
		if !ok {
			p.release()
			return ctx.Err()
		}

		p.ProcessPacket(pkt)

		if pkt == nil {
			p.release()
			return nil
		}
	}
}

// ProcessPacket submits one encoded packet to the decoder and processes
// every frame it yields. The drain loop is finite and re-run per packet.
// A nil packet forwards the end-of-stream sentinel directly to the sink.
func (p *Processor) ProcessPacket(pkt InputPacket) {
	if pkt == nil {
		p.sink.Emit(nil)
		return
	}

	err := p.dec.Submit(pkt)
	if r, ok := pkt.(releaser); ok {
		r.Free()
	}
	if err != nil {
		// Submission failures drop the packet without output.
		return
	}

	for {
		f, err := p.dec.Pull()
		if err != nil {
			log.Printf("Error pulling decoded frame: %v", err)
			return
		}
		if f == nil {
			return
		}
		p.processFrame(f)
	}
}

// processFrame repairs the frame's timestamp, converts it and emits the
// result. The expected next timestamp always advances by the frame's sample
// count, assuming continuous audio.
func (p *Processor) processFrame(f *audio.Frame) {
	pts := f.Pts
	if !f.HasPts {
		pts = p.nextPts
	}

	if pkt, ok := p.convert(f, pts); ok {
		p.sink.Emit(pkt)
		p.sink.FrameProduced()
	}

	p.nextPts = pts + int64(f.Samples)
}

// convert runs sync estimation, (re)configures the converter when the
// conversion tuple changed and assembles the output packet. Every failure
// degrades to "no packet for this frame".
func (p *Processor) convert(f *audio.Frame, pts int64) (*audio.Packet, bool) {
	ptsSec := float64(pts) * p.opts.TimeBase.Float64()
	dec := p.est.Estimate(ptsSec, f.Samples, f.Rate)
	p.setSkew(dec.Diff)

	format, layout := negotiate(f.Format, f.Layout)
	cfg := resample.Config{
		InFormat:   f.Format,
		InPlanar:   f.Planar,
		InChannels: f.Channels,
		InRate:     f.Rate,
		OutFormat:  format,
		OutLayout:  layout,
		OutRate:    f.Rate,
	}

	if p.conv == nil || cfg != p.convCfg {
		if p.conv != nil {
			p.conv.Close()
			p.conv = nil
		}
		conv, err := p.factory(cfg)
		if err != nil {
			log.Printf("Error configuring audio converter: %v", err)
			return nil, false
		}
		p.conv = conv
		p.convCfg = cfg
	}

	if dec.Compensate {
		if err := p.conv.SetCompensation(dec.Wanted-f.Samples, dec.Wanted); err != nil {
			log.Printf("Error requesting sample compensation: %v", err)
			return nil, false
		}
	}

	data, err := p.conv.Convert(f, dec.Wanted)
	if err != nil {
		log.Printf("Error converting audio: %v", err)
		return nil, false
	}

	caps := audio.Caps{
		Valid:    true,
		Format:   format,
		BitDepth: 8 * format.BytesPerSample(),
		Channels: layout.Channels(),
		Rate:     f.Rate,
		Layout:   layout,
		Samples:  dec.Wanted,
		Align:    false,
	}

	return &audio.Packet{
		Caps:        caps,
		Data:        data,
		Pts:         pts,
		TimeBase:    p.opts.TimeBase,
		StreamIndex: p.opts.StreamIndex,
		StreamID:    p.opts.StreamID,
	}, true
}

// ClockSkew returns the last measured pts-minus-clock difference in
// seconds. Exposed for diagnostics and UI; not consumed internally.
func (p *Processor) ClockSkew() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.skew
}

func (p *Processor) setSkew(diff float64) {
	p.mu.Lock()
	p.skew = diff
	p.mu.Unlock()
}

// release drops the converter handle and any frame in flight.
func (p *Processor) release() {
	if p.conv != nil {
		p.conv.Close()
		p.conv = nil
	}
}

// negotiate resolves the output format and layout for an input pair. The
// packed equivalent of a planar format is the same base format, so the
// input format is kept directly when it is in the supported set.
func negotiate(format audio.SampleFormat, layout audio.ChannelLayout) (audio.SampleFormat, audio.ChannelLayout) {
	if !format.Supported() {
		format = audio.FormatFlt
	}
	if !layout.Supported() {
		layout = audio.LayoutStereo
	}
	return format, layout
}
