package autoencoder

import (
	"time"

	"github.com/bushingplan/decisionengine/bmerr"
	"github.com/bushingplan/decisionengine/solver"
	"github.com/bushingplan/decisionengine/telemetry"
	"github.com/samuelfneumann/progressbar"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Train fits the auto-encoder on windows, standardized by scaler
// beforehand (spec §4.5). Windows are split 80/20 by order — the
// reference implementation does not shuffle before splitting, so
// neither do we. Training minimizes mean squared reconstruction error
// with Adam, the same optimizer wiring the teacher uses for its
// policy networks (solver/AdamSolver.go).
func (m *Model) Train(windows []Window, scaler *Scaler, sink telemetry.Sink) error {
	if sink == nil {
		sink = telemetry.Noop{}
	}
	if len(windows) == 0 {
		return bmerr.New("autoencoder.Model.Train", bmerr.InvalidInput, errEmptyWindows())
	}
	m.scaler = scaler

	splitAt := int(float64(len(windows)) * (1 - m.cfg.ValidationSplit))
	if splitAt <= 0 {
		splitAt = len(windows)
	}
	train, val := windows[:splitAt], windows[splitAt:]

	batchSize := m.cfg.BatchSize
	if batchSize > len(train) {
		batchSize = len(train)
	}
	trainNet, err := buildNet(m.cfg.Arch, m.numFeatures, m.cfg.WindowSize, m.cfg.LatentDim, batchSize)
	if err != nil {
		return bmerr.New("autoencoder.Model.Train", bmerr.InvalidInput, err)
	}

	loss, err := mseLoss(trainNet.reconstruction, trainNet.input)
	if err != nil {
		return bmerr.New("autoencoder.Model.Train", bmerr.NumericInstability, err)
	}
	if _, err := G.Grad(loss, trainNet.learnables...); err != nil {
		return bmerr.New("autoencoder.Model.Train", bmerr.NumericInstability, err)
	}

	vm := G.NewTapeMachine(trainNet.g, G.BindDualValues(trainNet.learnables...))
	defer vm.Close()
	adam, err := solver.NewDefaultAdam(m.cfg.LearningRate, batchSize)
	if err != nil {
		return bmerr.New("autoencoder.Model.Train", bmerr.NumericInstability, err)
	}

	numBatches := len(train) / batchSize
	if numBatches == 0 {
		numBatches = 1
	}

	var bar *progressbar.ProgressBar
	if m.cfg.ShowProgress {
		bar = progressbar.New(50, m.cfg.NumEpochs, time.Second, true)
		bar.Display()
		defer bar.Close()
	}

	for epoch := 0; epoch < m.cfg.NumEpochs; epoch++ {
		var epochLoss float64
		for b := 0; b < numBatches; b++ {
			batch := train[b*batchSize : (b+1)*batchSize]
			backing := flattenBatch(batch, m.cfg.Arch, m.numFeatures, m.cfg.WindowSize)
			if err := G.Let(trainNet.input, backing); err != nil {
				return bmerr.New("autoencoder.Model.Train", bmerr.NumericInstability, err)
			}
			if err := vm.RunAll(); err != nil {
				return bmerr.New("autoencoder.Model.Train", bmerr.NumericInstability, err)
			}
			if err := adam.Step(G.NodesToValueGrads(trainNet.learnables)); err != nil {
				return bmerr.New("autoencoder.Model.Train", bmerr.NumericInstability, err)
			}
			epochLoss += scalarValue(loss.Value())
			vm.Reset()
		}
		sink.Debug("autoencoder.train.epoch", "epoch", epoch, "mean_loss", epochLoss/float64(numBatches))
		if bar != nil {
			bar.Increment()
		}
	}

	valLoss, err := m.evaluateLoss(trainNet, val, batchSize)
	if err == nil {
		sink.Info("autoencoder.train.done", "arch", m.cfg.Arch, "epochs", m.cfg.NumEpochs,
			"train_windows", len(train), "val_windows", len(val), "val_loss", valLoss)
	}

	evalNet, err := buildNet(m.cfg.Arch, m.numFeatures, m.cfg.WindowSize, m.cfg.LatentDim, 1)
	if err != nil {
		return bmerr.New("autoencoder.Model.Train", bmerr.InvalidInput, err)
	}
	if err := copyWeights(evalNet, trainNet); err != nil {
		return bmerr.New("autoencoder.Model.Train", bmerr.NumericInstability, err)
	}
	m.evalNet = evalNet
	m.fitted = true
	return nil
}

// evaluateLoss runs a fresh forward pass over val in batchSize chunks
// and returns the mean reconstruction MSE, used only for the training
// log line; validation windows never update the weights.
func (m *Model) evaluateLoss(trainNet *net, val []Window, batchSize int) (float64, error) {
	if len(val) < batchSize {
		return 0, errEmptyWindows()
	}
	vm := G.NewTapeMachine(trainNet.g)
	defer vm.Close()
	var total float64
	n := len(val) / batchSize
	for b := 0; b < n; b++ {
		batch := val[b*batchSize : (b+1)*batchSize]
		backing := flattenBatch(batch, m.cfg.Arch, m.numFeatures, m.cfg.WindowSize)
		if err := G.Let(trainNet.input, backing); err != nil {
			return 0, err
		}
		if err := vm.RunAll(); err != nil {
			return 0, err
		}
		total += reconstructionMSE(trainNet.reconstruction.Value(), backing)
		vm.Reset()
	}
	if n == 0 {
		return 0, errEmptyWindows()
	}
	return total / float64(n), nil
}

func mseLoss(reconstruction, input *G.Node) (*G.Node, error) {
	diff, err := G.Sub(reconstruction, input)
	if err != nil {
		return nil, err
	}
	sq, err := G.Square(diff)
	if err != nil {
		return nil, err
	}
	return G.Mean(sq)
}

// flattenBatch lays out a batch of windows as the dense (batch,
// flatDim) or conv (batch,1,1,windowSize) backing tensor.
func flattenBatch(batch []Window, arch Arch, numFeatures, windowSize int) tensor.Tensor {
	flatDim := FlatDim(windowSize, numFeatures)
	data := make([]float64, 0, len(batch)*flatDim)
	for _, w := range batch {
		data = append(data, w.Values...)
	}
	if arch == Conv {
		return tensor.New(tensor.WithBacking(data), tensor.WithShape(len(batch), 1, 1, windowSize))
	}
	return tensor.New(tensor.WithBacking(data), tensor.WithShape(len(batch), flatDim))
}

func scalarValue(v G.Value) float64 {
	switch t := v.(type) {
	case tensor.Tensor:
		data, ok := t.Data().(float64)
		if ok {
			return data
		}
		if arr, ok := t.Data().([]float64); ok && len(arr) > 0 {
			return arr[0]
		}
	}
	return 0
}

func reconstructionMSE(reconstruction G.Value, input tensor.Tensor) float64 {
	recon, ok := reconstruction.(tensor.Tensor)
	if !ok {
		return 0
	}
	rd := recon.Data().([]float64)
	id := input.Data().([]float64)
	var sum float64
	for i := range rd {
		d := rd[i] - id[i]
		sum += d * d
	}
	return sum / float64(len(rd))
}
