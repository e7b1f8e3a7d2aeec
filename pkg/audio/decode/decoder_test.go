// ABOUTME: Tests for the elementary stream adapter
// ABOUTME: Submit/pull cycle, packet type checks and close propagation
package decode

import (
	"errors"
	"testing"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

type stubDecoder struct {
	frame  *audio.Frame
	err    error
	closed bool
}

func (d *stubDecoder) Decode(data []byte) (*audio.Frame, error) {
	return d.frame, d.err
}

func (d *stubDecoder) Close() error {
	d.closed = true
	return nil
}

func TestElementarySubmitPullCycle(t *testing.T) {
	want := &audio.Frame{Samples: 4, Rate: 44100, Channels: 2}
	e := NewElementary(&stubDecoder{frame: want}, audio.Native{
		Format:   audio.FormatS16,
		Layout:   audio.LayoutStereo,
		Channels: 2,
		Rate:     44100,
	})

	if err := e.Submit(&Chunk{Data: []byte{1, 2, 3, 4}}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	f, err := e.Pull()
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if f != want {
		t.Error("expected the staged frame")
	}

	// Drained until the next submission.
	f, err = e.Pull()
	if f != nil || err != nil {
		t.Errorf("expected (nil, nil) once drained, got (%v, %v)", f, err)
	}
}

func TestElementaryRejectsForeignPackets(t *testing.T) {
	e := NewElementary(&stubDecoder{}, audio.Native{})
	if err := e.Submit(&foreignPacket{}); err == nil {
		t.Error("expected an error for a non-chunk packet")
	}
}

type foreignPacket struct{}

func (p *foreignPacket) StreamIndex() int { return 0 }

func TestElementaryPropagatesDecodeErrors(t *testing.T) {
	e := NewElementary(&stubDecoder{err: errors.New("bad chunk")}, audio.Native{})
	if err := e.Submit(&Chunk{Data: []byte{1}}); err == nil {
		t.Error("expected the decode error to surface")
	}
	if f, _ := e.Pull(); f != nil {
		t.Error("expected no staged frame after a failed decode")
	}
}

func TestElementaryCloseReleasesDecoder(t *testing.T) {
	stub := &stubDecoder{}
	e := NewElementary(stub, audio.Native{})
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !stub.closed {
		t.Error("expected the wrapped decoder to be closed")
	}
}

func TestChunkStreamIndex(t *testing.T) {
	c := &Chunk{Index: 7}
	if c.StreamIndex() != 7 {
		t.Errorf("expected stream index 7, got %d", c.StreamIndex())
	}
}

func TestNativeIsDeclaredUpfront(t *testing.T) {
	native := audio.Native{Format: audio.FormatFlt, Layout: audio.LayoutMono, Channels: 1, Rate: 8000}
	e := NewElementary(&stubDecoder{}, native)
	if e.Native() != native {
		t.Errorf("expected %+v, got %+v", native, e.Native())
	}
}
