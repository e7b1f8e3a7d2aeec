// ABOUTME: Audio conversion package using linear interpolation
// ABOUTME: Converts sample formats, channel layouts and sample counts
// Package resample provides audio format, layout and sample count
// conversion.
//
// A Resampler handle is bound to one conversion tuple and must be rebuilt
// with Reconfigure when the tuple changes. Sample rate compensation is
// expressed as an explicit target sample count per converted frame, which
// lets a sync estimator stretch or squeeze playback by bounded amounts.
//
// Example:
//
//	r, err := resample.New(resample.Config{
//	    InFormat: audio.FormatS16, InChannels: 2, InRate: 48000,
//	    OutFormat: audio.FormatFlt, OutLayout: audio.LayoutStereo, OutRate: 48000,
//	})
//	data, err := r.Convert(frame, wanted)
package resample
