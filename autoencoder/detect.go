package autoencoder

import (
	"time"

	"github.com/bushingplan/decisionengine/bmerr"
	"github.com/bushingplan/decisionengine/telemetry"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Detection is one window's anomaly-detection result (spec §4.5).
type Detection struct {
	Timestamp time.Time
	Q         float64 // raw reconstruction MSE
	T2        float64 // raw mean squared latent norm
	QSmooth   float64 // rolling-median-smoothed Q
	T2Smooth  float64 // rolling-median-smoothed T2
	IsAnomaly bool
	Severity  string // "critical" or "normal"
}

// AnomalySummary aggregates a Detect run, grounded on the reference
// implementation's get_anomaly_summary.
type AnomalySummary struct {
	TotalPoints       int
	AnomalyCount      int
	AnomalyPercentage float64
	MeanQ             float64
	MaxQ              float64
	MeanT2            float64
	MaxT2             float64
}

// Detect runs the trained auto-encoder over windows one at a time
// (the reference implementation scores windows individually, not
// batched), computes Q and T² per window, smooths both with a
// trailing rolling median, and thresholds the smoothed series at the
// configured percentile — computed on this detection batch itself, so
// thresholds adapt to the data being scored rather than to training
// data (spec §4.5).
func (m *Model) Detect(windows []Window, sink telemetry.Sink) ([]Detection, AnomalySummary, error) {
	if sink == nil {
		sink = telemetry.Noop{}
	}
	if !m.fitted {
		return nil, AnomalySummary{}, bmerr.New("autoencoder.Model.Detect", bmerr.InvalidInput, errNotFitted())
	}
	if len(windows) == 0 {
		return nil, AnomalySummary{}, bmerr.New("autoencoder.Model.Detect", bmerr.InvalidInput, errEmptyWindows())
	}

	vm := G.NewTapeMachine(m.evalNet.g)
	defer vm.Close()

	q := make([]float64, len(windows))
	t2 := make([]float64, len(windows))
	for i, w := range windows {
		backing := flattenBatch([]Window{w}, m.cfg.Arch, m.numFeatures, m.cfg.WindowSize)
		if err := G.Let(m.evalNet.input, backing); err != nil {
			return nil, AnomalySummary{}, bmerr.New("autoencoder.Model.Detect", bmerr.NumericInstability, err)
		}
		if err := vm.RunAll(); err != nil {
			return nil, AnomalySummary{}, bmerr.New("autoencoder.Model.Detect", bmerr.NumericInstability, err)
		}
		q[i] = reconstructionMSE(m.evalNet.reconstruction.Value(), backing)
		t2[i] = meanSquaredLatent(m.evalNet.latent.Value())
		vm.Reset()
	}

	qSmooth := rollingMedian(q, m.cfg.RollingWindow)
	t2Smooth := rollingMedian(t2, m.cfg.RollingWindow)
	qThreshold := percentile(qSmooth, m.cfg.ThresholdPercentile)
	t2Threshold := percentile(t2Smooth, m.cfg.ThresholdPercentile)

	detections := make([]Detection, len(windows))
	anomalies := 0
	var sumQ, maxQ, sumT2, maxT2 float64
	for i, w := range windows {
		isAnomaly := qSmooth[i] > qThreshold || t2Smooth[i] > t2Threshold
		severity := "normal"
		if isAnomaly {
			severity = "critical"
			anomalies++
		}
		detections[i] = Detection{
			Timestamp: w.Timestamp,
			Q:         q[i],
			T2:        t2[i],
			QSmooth:   qSmooth[i],
			T2Smooth:  t2Smooth[i],
			IsAnomaly: isAnomaly,
			Severity:  severity,
		}
		sumQ += q[i]
		sumT2 += t2[i]
		if q[i] > maxQ {
			maxQ = q[i]
		}
		if t2[i] > maxT2 {
			maxT2 = t2[i]
		}
	}

	summary := AnomalySummary{
		TotalPoints:       len(windows),
		AnomalyCount:      anomalies,
		AnomalyPercentage: 100 * float64(anomalies) / float64(len(windows)),
		MeanQ:             sumQ / float64(len(windows)),
		MaxQ:              maxQ,
		MeanT2:            sumT2 / float64(len(windows)),
		MaxT2:             maxT2,
	}
	sink.Info("autoencoder.detect.done", "windows", len(windows), "anomalies", anomalies,
		"anomaly_pct", summary.AnomalyPercentage)
	return detections, summary, nil
}

func meanSquaredLatent(v G.Value) float64 {
	t, ok := v.(tensor.Tensor)
	if !ok {
		return 0
	}
	data := t.Data().([]float64)
	var sum float64
	for _, x := range data {
		sum += x * x
	}
	return sum / float64(len(data))
}
