// ABOUTME: Tests for the audio output sink
// ABOUTME: Volume scaling, sample narrowing and device format mapping
package player

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ebitengine/oto/v3"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

func TestVolumeMultiplier(t *testing.T) {
	if volumeMultiplier(100, false) != 1.0 {
		t.Error("expected full volume to be 1.0")
	}
	if volumeMultiplier(50, false) != 0.5 {
		t.Error("expected half volume to be 0.5")
	}
	if volumeMultiplier(100, true) != 0.0 {
		t.Error("expected mute to zero the multiplier")
	}
}

func TestApplyVolumeS16(t *testing.T) {
	in := make([]byte, 4)
	binary.LittleEndian.PutUint16(in[0:], uint16(int16(10000)))
	binary.LittleEndian.PutUint16(in[2:], uint16(int16(-10000)))

	out := applyVolume(in, audio.FormatS16, 50, false)
	if v := int16(binary.LittleEndian.Uint16(out)); v != 5000 {
		t.Errorf("expected 5000, got %d", v)
	}
	if v := int16(binary.LittleEndian.Uint16(out[2:])); v != -5000 {
		t.Errorf("expected -5000, got %d", v)
	}
}

func TestApplyVolumeFullPassesThrough(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	out := applyVolume(in, audio.FormatS16, 100, false)
	if &out[0] != &in[0] {
		t.Error("expected full volume to return the input buffer")
	}
}

func TestApplyVolumeMuteSilences(t *testing.T) {
	in := make([]byte, 8)
	binary.LittleEndian.PutUint32(in, math.Float32bits(0.75))
	binary.LittleEndian.PutUint32(in[4:], math.Float32bits(-0.25))

	out := applyVolume(in, audio.FormatFlt, 100, true)
	for i := 0; i < 8; i += 4 {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(out[i:])); v != 0 {
			t.Errorf("expected silence, got %f at byte %d", v, i)
		}
	}
}

func TestNarrowS32(t *testing.T) {
	in := make([]byte, 8)
	binary.LittleEndian.PutUint32(in[0:], uint32(int32(1<<30)))
	binary.LittleEndian.PutUint32(in[4:], uint32(int32(-1<<30)))

	out := narrowS32(in)
	if len(out) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(out))
	}
	if v := int16(binary.LittleEndian.Uint16(out)); v != 1<<14 {
		t.Errorf("expected %d, got %d", 1<<14, v)
	}
	if v := int16(binary.LittleEndian.Uint16(out[2:])); v != -1<<14 {
		t.Errorf("expected %d, got %d", -1<<14, v)
	}
}

func TestOtoFormatMapping(t *testing.T) {
	cases := []struct {
		in     audio.SampleFormat
		want   oto.Format
		narrow bool
	}{
		{audio.FormatU8, oto.FormatUnsignedInt8, false},
		{audio.FormatS16, oto.FormatSignedInt16LE, false},
		{audio.FormatS32, oto.FormatSignedInt16LE, true},
		{audio.FormatFlt, oto.FormatFloat32LE, false},
	}
	for _, tc := range cases {
		format, narrow, err := otoFormat(tc.in)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.in, err)
			continue
		}
		if format != tc.want || narrow != tc.narrow {
			t.Errorf("%s: got (%v, %v)", tc.in, format, narrow)
		}
	}

	if _, _, err := otoFormat(audio.FormatDbl); err == nil {
		t.Error("expected an error for a format without a device equivalent")
	}
}

func TestSetVolumeClamps(t *testing.T) {
	o := NewOutput()
	o.SetVolume(150)
	if o.volume != 100 {
		t.Errorf("expected clamp at 100, got %d", o.volume)
	}
	o.SetVolume(-5)
	if o.volume != 0 {
		t.Errorf("expected clamp at 0, got %d", o.volume)
	}
}

func TestEmitBeforeInitializeIsIgnored(t *testing.T) {
	o := NewOutput()
	// Must not panic without a device.
	o.Emit(&audio.Packet{Data: []byte{1, 2}})
	o.Emit(nil)
}
