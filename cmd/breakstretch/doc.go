// Package main hosts the breakstretch CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, checks
// for the stretch engine once, and hands a fixed set of processing options to
// the pipeline. Commands only parse flags and print; tempo resolution,
// planning and conversion live in the internal packages.
package main
