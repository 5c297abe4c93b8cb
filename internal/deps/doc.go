// Package deps resolves the external binaries breakstretch shells out to and
// explains how to install them when they are missing.
package deps
