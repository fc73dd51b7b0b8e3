// Package autoencoder implements the sliding-window auto-encoder used
// for anomaly detection over bushing sensor time series (spec §4.5).
// Two architectures share one training/detection contract: a dense
// fully-connected encoder/decoder and a 1-D convolutional one, both
// built on gorgonia's differentiable graph the way the teacher's
// network package builds feed-forward critics and actors.
package autoencoder

// Arch selects the network architecture (spec §4.5/§6 ae.model_arch).
type Arch string

const (
	Dense Arch = "dense"
	Conv  Arch = "conv"
)

// Config holds the auto-encoder's training and detection parameters
// (spec §4.5/§6).
type Config struct {
	Arch                Arch
	LatentDim           int
	WindowSize          int
	NumEpochs           int
	LearningRate        float64
	BatchSize           int
	ValidationSplit     float64
	ThresholdPercentile float64
	RollingWindow       int

	// ShowProgress draws a terminal progress bar across the training
	// epoch loop. Off by default since it writes straight to stdout
	// (see Train), which would interleave with a CLI run that pipes
	// its JSON report to stdout.
	ShowProgress bool
}

// DefaultConfig returns the spec-documented defaults.
func DefaultConfig() Config {
	return Config{
		Arch:                Dense,
		LatentDim:           5,
		WindowSize:          168,
		NumEpochs:           50,
		LearningRate:        1e-3,
		BatchSize:           32,
		ValidationSplit:     0.2,
		ThresholdPercentile: 95,
		RollingWindow:       12,
		ShowProgress:        false,
	}
}
