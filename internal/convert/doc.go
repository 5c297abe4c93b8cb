// Package convert rewrites stretched files to a requested sample rate, bit
// depth or channel layout. Conversion is skipped entirely when the file already
// matches and would be written back to itself.
package convert
