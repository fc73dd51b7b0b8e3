package main

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/bushingplan/decisionengine/autoencoder"
	"github.com/spf13/cobra"
)

var errNoSamples = errors.New("no samples provided")

type sensorSample struct {
	Timestamp time.Time `json:"timestamp"`
	Features  []float64 `json:"features"`
}

type detectReport struct {
	Summary    autoencoder.AnomalySummary `json:"summary"`
	Detections []autoencoder.Detection    `json:"detections"`
}

func newDetectCmd() *cobra.Command {
	var samplesPath, outPath string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Train a sliding-window auto-encoder and score a sensor series for anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sink, err := loadConfig()
			if err != nil {
				return err
			}

			samples, err := readSamples(samplesPath)
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return errNoSamples
			}
			numFeatures := len(samples[0].Features)

			aeCfg := autoencoder.Config{
				Arch:                autoencoder.Arch(cfg.AE.ModelArch),
				LatentDim:           cfg.AE.LatentDim,
				WindowSize:          cfg.AE.WindowSize,
				NumEpochs:           cfg.AE.NumEpochs,
				LearningRate:        cfg.AE.LearningRate,
				BatchSize:           cfg.AE.BatchSize,
				ValidationSplit:     0.2,
				ThresholdPercentile: cfg.AE.ThresholdPercentile,
				RollingWindow:       cfg.AE.RollingWindow,
			}

			rows := make([][]float64, len(samples))
			aeSamples := make([]autoencoder.Sample, len(samples))
			for i, s := range samples {
				rows[i] = s.Features
				aeSamples[i] = autoencoder.Sample{Timestamp: s.Timestamp, Features: s.Features}
			}
			// Fit the scaler on the samples covered by the training
			// windows only: Train holds out the trailing ValidationSplit
			// of windows, in order.
			trainRows := len(rows)
			if numWindows := len(rows) - aeCfg.WindowSize + 1; aeCfg.WindowSize > 0 && numWindows > 0 {
				if splitAt := int(float64(numWindows) * (1 - aeCfg.ValidationSplit)); splitAt > 0 {
					trainRows = splitAt + aeCfg.WindowSize - 1
				}
			}
			scaler := autoencoder.FitScaler(rows[:trainRows], numFeatures)

			windows, err := autoencoder.ExtractWindows(aeSamples, aeCfg.WindowSize, scaler)
			if err != nil {
				return err
			}

			model := autoencoder.NewModel(aeCfg, numFeatures)
			if err := model.Train(windows, scaler, sink); err != nil {
				return err
			}

			detections, summary, err := model.Detect(windows, sink)
			if err != nil {
				return err
			}
			return writeDetectReport(outPath, detectReport{Summary: summary, Detections: detections})
		},
	}

	cmd.Flags().StringVar(&samplesPath, "samples", "", "path to a JSON file of timestamped sensor samples")
	cmd.Flags().StringVar(&outPath, "out", "-", "path to write the anomaly report JSON to (- for stdout)")
	cmd.MarkFlagRequired("samples")
	return cmd
}

func readSamples(path string) ([]sensorSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []sensorSample
	if err := json.NewDecoder(f).Decode(&samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func writeDetectReport(path string, report detectReport) error {
	w := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
