// ABOUTME: Lookup tables from FFmpeg codes to semantic audio enums
// ABOUTME: Built once at init, read-only afterwards
package ffmpeg

import (
	"github.com/asticode/go-astiav"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

type sampleFormat struct {
	format audio.SampleFormat
	planar bool
}

// sampleFormats maps FFmpeg sample formats to the pipeline's semantic
// format plus a planar flag. Immutable after init.
var sampleFormats = map[astiav.SampleFormat]sampleFormat{
	astiav.SampleFormatU8:   {audio.FormatU8, false},
	astiav.SampleFormatS16:  {audio.FormatS16, false},
	astiav.SampleFormatS32:  {audio.FormatS32, false},
	astiav.SampleFormatS64:  {audio.FormatS64, false},
	astiav.SampleFormatFlt:  {audio.FormatFlt, false},
	astiav.SampleFormatDbl:  {audio.FormatDbl, false},
	astiav.SampleFormatU8P:  {audio.FormatU8, true},
	astiav.SampleFormatS16P: {audio.FormatS16, true},
	astiav.SampleFormatS32P: {audio.FormatS32, true},
	astiav.SampleFormatS64P: {audio.FormatS64, true},
	astiav.SampleFormatFltP: {audio.FormatFlt, true},
	astiav.SampleFormatDblP: {audio.FormatDbl, true},
}

// layoutOf maps an FFmpeg channel layout to a semantic layout. Layouts
// beyond mono and stereo report LayoutNone and are resolved downstream by
// negotiation.
func layoutOf(l astiav.ChannelLayout) audio.ChannelLayout {
	switch l.Channels() {
	case 1:
		return audio.LayoutMono
	case 2:
		return audio.LayoutStereo
	}
	return audio.LayoutNone
}
