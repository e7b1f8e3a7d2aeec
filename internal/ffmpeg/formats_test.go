// ABOUTME: Tests for the FFmpeg-to-semantic lookup tables
// ABOUTME: Table consistency and the planar/packed pairing
package ffmpeg

import (
	"testing"

	"github.com/asticode/go-astiav"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

func TestSampleFormatTable(t *testing.T) {
	pairs := []struct {
		packed astiav.SampleFormat
		planar astiav.SampleFormat
		want   audio.SampleFormat
	}{
		{astiav.SampleFormatU8, astiav.SampleFormatU8P, audio.FormatU8},
		{astiav.SampleFormatS16, astiav.SampleFormatS16P, audio.FormatS16},
		{astiav.SampleFormatS32, astiav.SampleFormatS32P, audio.FormatS32},
		{astiav.SampleFormatS64, astiav.SampleFormatS64P, audio.FormatS64},
		{astiav.SampleFormatFlt, astiav.SampleFormatFltP, audio.FormatFlt},
		{astiav.SampleFormatDbl, astiav.SampleFormatDblP, audio.FormatDbl},
	}

	for _, p := range pairs {
		packed, ok := sampleFormats[p.packed]
		if !ok || packed.format != p.want || packed.planar {
			t.Errorf("%v: expected packed %s, got %+v", p.packed, p.want, packed)
		}
		planar, ok := sampleFormats[p.planar]
		if !ok || planar.format != p.want || !planar.planar {
			t.Errorf("%v: expected planar %s, got %+v", p.planar, p.want, planar)
		}
	}

	if len(sampleFormats) != 2*len(pairs) {
		t.Errorf("expected %d table entries, got %d", 2*len(pairs), len(sampleFormats))
	}
}
