package autoencoder

import (
	"time"

	"github.com/bushingplan/decisionengine/bmerr"
)

// Sample is one timestamped, multi-feature sensor reading.
type Sample struct {
	Timestamp time.Time
	Features  []float64
}

// Window is a fixed-length, standardized slice of a longer sensor
// series (spec §3): read-only after extraction.
type Window struct {
	Timestamp time.Time // timestamp of the window's last sample
	Values    []float64 // flattened (dense) or sequence (conv) samples
}

// ExtractWindows slides a length-windowSize window one sample at a time
// over samples, standardizing each feature with scaler first. The
// window's timestamp is that of its final sample, matching the
// reference implementation's `data.index[window_size-1:]` alignment.
func ExtractWindows(samples []Sample, windowSize int, scaler *Scaler) ([]Window, error) {
	if windowSize <= 0 {
		return nil, bmerr.New("autoencoder.ExtractWindows", bmerr.InvalidInput, errNonPositiveWindow(windowSize))
	}
	if len(samples) < windowSize {
		return nil, nil
	}

	numFeatures := len(samples[0].Features)
	windows := make([]Window, 0, len(samples)-windowSize+1)

	for start := 0; start+windowSize <= len(samples); start++ {
		values := make([]float64, 0, windowSize*numFeatures)
		for i := start; i < start+windowSize; i++ {
			scaled := scaler.Transform(samples[i].Features)
			values = append(values, scaled...)
		}
		windows = append(windows, Window{
			Timestamp: samples[start+windowSize-1].Timestamp,
			Values:    values,
		})
	}
	return windows, nil
}

// FlatDim returns the flattened input dimensionality for a window of
// windowSize samples each with numFeatures features.
func FlatDim(windowSize, numFeatures int) int {
	return windowSize * numFeatures
}
