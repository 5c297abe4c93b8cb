// Package beat estimates global tempo from a mono waveform.
//
// The tracker computes a spectral-flux onset envelope over a Hann-windowed
// STFT, autocorrelates it, and weights the autocorrelation with a log-normal
// prior centred on a starting tempo. Local maxima of the weighted curve are
// reported as BPM values, strongest first.
package beat
