// Package pipeline drives audio files through tempo resolution, stretching and
// optional format conversion.
//
// Processing is sequential: one asset at a time, one target at a time, in
// the order given. The first fatal error stops the batch; outputs already
// written stay on disk. Progress lines and advisory tempo warnings go to a
// caller-supplied Reporter, separate from structured logging.
package pipeline
