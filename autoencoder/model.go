package autoencoder

import (
	"github.com/bushingplan/decisionengine/bmerr"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// net is the minimal shape a built auto-encoder graph must expose so
// Train/Detect can stay architecture-agnostic — the same capability-
// interface approach the solver package uses for nsga.Problem instead
// of modeling dense vs. conv through inheritance.
type net struct {
	g              *G.ExprGraph
	input          *G.Node // dense: (batch, flatDim); conv: (batch, 1, 1, windowSize)
	reconstruction *G.Node // (batch, flatDim)
	latent         *G.Node // (batch, latentDim)
	learnables     G.Nodes
	batchSize      int
	decoder        []*denseLayer
	encoderDense   []*denseLayer // nil for conv
	encoderConv    *convEncoder  // nil for dense
	bottleneck     []*denseLayer // conv projection to latent; nil for dense
}

func buildNet(arch Arch, numFeatures, windowSize, latentDim, batchSize int) (*net, error) {
	g := G.NewGraph()
	flatDim := FlatDim(windowSize, numFeatures)

	switch arch {
	case Dense:
		x := G.NewMatrix(g, tensor.Float64, G.WithShape(batchSize, flatDim), G.WithName("x"))
		enc := buildDenseStack(g, []int{flatDim, 32, 16, 8, latentDim}, "enc")
		latent, err := fwdStack(enc, x)
		if err != nil {
			return nil, err
		}
		dec := buildDenseStack(g, []int{latentDim, 8, 16, 32, flatDim}, "dec")
		recon, err := fwdStack(dec, latent)
		if err != nil {
			return nil, err
		}
		learn := append(stackLearnables(enc), stackLearnables(dec)...)
		return &net{g: g, input: x, reconstruction: recon, latent: latent, learnables: learn,
			batchSize: batchSize, decoder: dec, encoderDense: enc}, nil

	case Conv:
		if numFeatures != 1 {
			return nil, bmerr.New("autoencoder.buildNet", bmerr.InvalidInput,
				errConvRequiresSingleChannel(numFeatures))
		}
		if windowSize%8 != 0 {
			return nil, bmerr.New("autoencoder.buildNet", bmerr.InvalidInput,
				errConvRequiresDivisibleWindow(windowSize))
		}
		x := G.NewTensor(g, tensor.Float64, 4, G.WithShape(batchSize, 1, 1, windowSize), G.WithName("x"))
		enc := buildConvEncoder(g, windowSize)
		flattened, err := enc.fwd(x)
		if err != nil {
			return nil, err
		}
		bottleneck := buildDenseStack(g, []int{enc.flatDim(), latentDim}, "bottleneck")
		latent, err := fwdStack(bottleneck, flattened)
		if err != nil {
			return nil, err
		}
		dec := buildDenseStack(g, []int{latentDim, 8, 16, 32, windowSize}, "dec")
		recon, err := fwdStack(dec, latent)
		if err != nil {
			return nil, err
		}
		learn := append(enc.learnables(), stackLearnables(bottleneck)...)
		learn = append(learn, stackLearnables(dec)...)
		return &net{g: g, input: x, reconstruction: recon, latent: latent, learnables: learn,
			batchSize: batchSize, decoder: dec, encoderConv: enc, bottleneck: bottleneck}, nil

	default:
		return nil, bmerr.New("autoencoder.buildNet", bmerr.InvalidInput, errUnknownArch(arch))
	}
}

// copyWeights transfers dst's learned parameters from src, used to
// move a trained batch-sized graph's weights into a batch-1 inference
// graph — gorgonia graphs are shape-static, so inference at a
// different batch size needs its own graph sharing the same values,
// the same purpose network.Set serves between NeuralNet clones.
func copyWeights(dst, src *net) error {
	if dst.encoderDense != nil {
		if err := copyDenseWeights(dst.encoderDense, src.encoderDense); err != nil {
			return err
		}
	}
	if dst.encoderConv != nil {
		if err := copyConvWeights(dst.encoderConv, src.encoderConv); err != nil {
			return err
		}
	}
	if dst.bottleneck != nil {
		if err := copyDenseWeights(dst.bottleneck, src.bottleneck); err != nil {
			return err
		}
	}
	return copyDenseWeights(dst.decoder, src.decoder)
}

// Model is a trained (or trainable) auto-encoder bound to the scaler
// it was fit with. This package has no save or load for a Model: the
// trained weights and the scaler live only in memory.
type Model struct {
	cfg         Config
	numFeatures int
	scaler      *Scaler
	fitted      bool

	evalNet *net // batch-1 inference graph, built lazily after training
}

// NewModel constructs an untrained model for the given configuration
// and feature count. Call Train before Detect.
func NewModel(cfg Config, numFeatures int) *Model {
	return &Model{cfg: cfg, numFeatures: numFeatures}
}

func (m *Model) flatDim() int {
	return FlatDim(m.cfg.WindowSize, m.numFeatures)
}
