// Package audio models input files and moves PCM between disk and memory.
//
// Only two containers are accepted: WAV (via go-audio/wav) and FLAC (via
// mewkiz/flac). Decoded audio is held as per-channel float64 slices scaled to
// [-1, 1) so analysis and conversion code never deals with integer widths.
package audio
