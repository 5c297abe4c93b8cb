package pipeline

// Reporter receives user-facing progress and warning lines. Calls are
// synchronous and may happen many times per asset.
type Reporter interface {
	Report(line string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(line string)

// Report calls f(line).
func (f ReporterFunc) Report(line string) {
	f(line)
}

type discardReporter struct{}

func (discardReporter) Report(string) {}

// Discard drops every line.
var Discard Reporter = discardReporter{}
