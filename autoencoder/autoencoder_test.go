package autoencoder

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func syntheticSamples(n, numFeatures int, seed float64) []Sample {
	samples := make([]Sample, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		features := make([]float64, numFeatures)
		for f := 0; f < numFeatures; f++ {
			features[f] = seed + math.Sin(float64(i)/10.0+float64(f))
		}
		samples[i] = Sample{Timestamp: base.Add(time.Duration(i) * time.Hour), Features: features}
	}
	return samples
}

func TestExtractWindowsCount(t *testing.T) {
	samples := syntheticSamples(200, 2, 0)
	scaler := FitScaler(flattenSamples(samples), 2)
	windows, err := ExtractWindows(samples, 24, scaler)
	require.NoError(t, err)
	require.Len(t, windows, 200-24+1)
	require.Len(t, windows[0].Values, 24*2)
}

func TestExtractWindowsTooFewSamples(t *testing.T) {
	samples := syntheticSamples(5, 1, 0)
	scaler := FitScaler(flattenSamples(samples), 1)
	windows, err := ExtractWindows(samples, 24, scaler)
	require.NoError(t, err)
	require.Empty(t, windows)
}

func TestRollingMedianMatchesPlainMedianWhenWindowCoversAll(t *testing.T) {
	series := []float64{5, 1, 4, 2, 3}
	smoothed := rollingMedian(series, 100)
	require.Equal(t, median(series), smoothed[len(smoothed)-1])
}

func TestRollingMedianMinPeriodsOne(t *testing.T) {
	series := []float64{10, 20, 30}
	smoothed := rollingMedian(series, 5)
	require.Equal(t, 10.0, smoothed[0])
	require.Equal(t, 15.0, smoothed[1])
}

func TestPercentileBoundaries(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	require.Equal(t, 1.0, percentile(xs, 0))
	require.Equal(t, 5.0, percentile(xs, 100))
}

func TestPercentileMonotone(t *testing.T) {
	xs := []float64{9, 2, 7, 4, 1, 8}
	p50 := percentile(xs, 50)
	p95 := percentile(xs, 95)
	require.LessOrEqual(t, p50, p95)
}

func TestNewModelUntrainedDetectFails(t *testing.T) {
	cfg := DefaultConfig()
	m := NewModel(cfg, 1)
	_, _, err := m.Detect([]Window{{Values: make([]float64, cfg.WindowSize)}}, nil)
	require.Error(t, err)
}

func TestModelTrainAndDetect(t *testing.T) {
	samples := syntheticSamples(60, 2, 0)
	scaler := FitScaler(flattenSamples(samples), 2)
	windows, err := ExtractWindows(samples, 8, scaler)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.WindowSize = 8
	cfg.NumEpochs = 2
	cfg.BatchSize = 4
	cfg.LatentDim = 3
	cfg.ShowProgress = true

	m := NewModel(cfg, 2)
	require.NoError(t, m.Train(windows, scaler, nil))

	detections, summary, err := m.Detect(windows, nil)
	require.NoError(t, err)
	require.Len(t, detections, len(windows))
	require.Equal(t, len(windows), summary.TotalPoints)
}

func TestConvRequiresSingleChannel(t *testing.T) {
	_, err := buildNet(Conv, 2, 64, 5, 4)
	require.Error(t, err)
}

func TestConvRequiresDivisibleWindow(t *testing.T) {
	_, err := buildNet(Conv, 1, 65, 5, 4)
	require.Error(t, err)
}

func TestBuildDenseNetShapes(t *testing.T) {
	n, err := buildNet(Dense, 3, 16, 5, 8)
	require.NoError(t, err)
	require.Equal(t, 8, n.input.Shape()[0])
	require.Equal(t, 48, n.input.Shape()[1])
	require.Equal(t, 8, n.reconstruction.Shape()[0])
	require.Equal(t, 48, n.reconstruction.Shape()[1])
	require.Equal(t, 8, n.latent.Shape()[0])
	require.Equal(t, 5, n.latent.Shape()[1])
}

func TestStreamBufferWraparoundOrder(t *testing.T) {
	buf := NewStreamBuffer(3)
	for i := 0; i < 5; i++ {
		buf.Push(Sample{Features: []float64{float64(i)}})
	}
	require.True(t, buf.Ready())
	require.Equal(t, 3, buf.Len())
	window := buf.Window()
	require.Equal(t, []float64{2}, window[0].Features)
	require.Equal(t, []float64{3}, window[1].Features)
	require.Equal(t, []float64{4}, window[2].Features)
}

func TestStreamBufferNotReadyBeforeFull(t *testing.T) {
	buf := NewStreamBuffer(4)
	buf.Push(Sample{Features: []float64{1}})
	require.False(t, buf.Ready())
	require.Equal(t, 1, buf.Len())
}

func flattenSamples(samples []Sample) [][]float64 {
	rows := make([][]float64, len(samples))
	for i, s := range samples {
		rows[i] = s.Features
	}
	return rows
}
