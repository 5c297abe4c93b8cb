package tempo

import "strconv"

// Source names the detection path that produced a tempo.
type Source string

const (
	SourceManual   Source = "manual"
	SourceFilename Source = "filename"
	SourceAcoustic Source = "acoustic"
)

// Candidate is one BPM value tagged with its provenance.
type Candidate struct {
	BPM    float64
	Source Source
}

// FormatBPM renders a tempo without trailing zeros (170, 172.5).
func FormatBPM(bpm float64) string {
	return strconv.FormatFloat(bpm, 'f', -1, 64)
}
