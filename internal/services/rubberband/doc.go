// Package rubberband wraps the Rubber Band command-line time stretcher.
//
// The CLI client changes tempo without changing pitch by invoking
// `rubberband --tempo <ratio> --crisp <level> --quiet <in> <out>`. Tests swap
// the package-level command constructor for a helper process, so no real
// binary is needed to exercise argument construction or failure reporting.
package rubberband
