// Package stretch turns a resolved source tempo and a target tempo into a
// playback-rate ratio and a canonical output path. Everything here is pure.
package stretch
