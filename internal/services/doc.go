// Package services defines shared utilities consumed by the processing
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, asset paths, and target
//     tempos for logging.
//   - Structured error markers plus the Wrap helper so the CLI can classify a
//     failure (configuration, detection, external tool) without string
//     matching.
//
// Subpackages hold the thin clients for external tools such as rubberband.
package services
