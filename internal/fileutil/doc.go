// Package fileutil holds small file helpers: verified byte-identical copies
// and atomic replace-on-write.
package fileutil
