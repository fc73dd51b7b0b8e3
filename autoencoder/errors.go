package autoencoder

import "fmt"

func errNonPositiveWindow(n int) error {
	return fmt.Errorf("window size %d must be positive", n)
}

func errNotFitted() error {
	return fmt.Errorf("model has not been trained, call Train first")
}

func errUnknownArch(arch Arch) error {
	return fmt.Errorf("unknown auto-encoder architecture %q", arch)
}

func errEmptyWindows() error {
	return fmt.Errorf("no windows to train or detect on")
}

func errConvRequiresSingleChannel(numFeatures int) error {
	return fmt.Errorf("conv architecture requires a single feature channel, got %d", numFeatures)
}

func errConvRequiresDivisibleWindow(windowSize int) error {
	return fmt.Errorf("conv architecture requires a window size divisible by 8, got %d", windowSize)
}
