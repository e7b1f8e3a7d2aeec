// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Chunk decoders plus stream adapters for PCM, Opus, MP3, FLAC
// Package decode provides elementary audio decoders.
//
// Supports: PCM (16-bit and 24-bit), Opus, MP3, FLAC
//
// Chunk decoders implement the Decoder interface: one encoded chunk in, one
// decoded frame out. Elementary wraps a chunk decoder into the pipeline's
// submit/pull decoder contract. MP3 and FLAC are reader-backed and satisfy
// the contract directly.
//
// Decoded frames carry no presentation timestamps; the stream processor
// repairs them from its running sample position.
//
// Example:
//
//	dec, err := decode.NewOpus(48000, 2)
//	frame, err := dec.Decode(packet)
package decode
