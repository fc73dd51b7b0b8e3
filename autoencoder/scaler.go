package autoencoder

import (
	"encoding/gob"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes each feature to zero mean, unit variance, fit on
// a training portion only and kept on the Model it trains (spec §4.5);
// it is not written to disk by this package.
type Scaler struct {
	Mean []float64
	Std  []float64
}

func init() {
	gob.Register(&Scaler{})
}

// FitScaler computes per-feature mean and standard deviation over rows
// of raw samples, each of length numFeatures.
func FitScaler(rows [][]float64, numFeatures int) *Scaler {
	mean := make([]float64, numFeatures)
	std := make([]float64, numFeatures)

	column := make([]float64, len(rows))
	for f := 0; f < numFeatures; f++ {
		for i, row := range rows {
			column[i] = row[f]
		}
		m, s := stat.MeanStdDev(column, nil)
		mean[f] = m
		if s == 0 {
			s = 1 // degenerate constant feature: avoid a divide by zero
		}
		std[f] = s
	}

	return &Scaler{Mean: mean, Std: std}
}

// Transform returns a standardized copy of row; row is not modified.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.Mean[i]) / s.Std[i]
	}
	return out
}

// TransformAll standardizes every row.
func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
