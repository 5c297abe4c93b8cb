// Package tempo decides the source tempo of a drum loop.
//
// Three sources are consulted in strict priority order: a manual override,
// a BPM embedded in the file name, and acoustic estimation over the decoded
// waveform. The acoustic path runs an external tempo tracker under several
// priors and picks among the raw estimates and their harmonic variants with a
// fixed closest-to-160 rule, so results are reproducible across runs.
package tempo
