package autoencoder

import (
	"strconv"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// convFilter is one Conv2d+ReLU+MaxPool(2) stage. 1-D convolution is
// expressed as a height-1 2-D convolution (kernel shape (1,k)), the
// standard trick for frameworks, gorgonia included, that only expose
// Conv2d — there is no Conv1d primitive in gorgonia.org/gorgonia.
type convFilter struct {
	kernel *G.Node // shape (outChannels, inChannels, 1, k)
	pool   bool
}

func newConvFilter(g *G.ExprGraph, inChannels, outChannels, k int, name string, pool bool) *convFilter {
	kernel := G.NewTensor(g, tensor.Float64, 4,
		G.WithShape(outChannels, inChannels, 1, k),
		G.WithName(name), G.WithInit(G.GlorotN(1.0)))
	return &convFilter{kernel: kernel, pool: pool}
}

func (f *convFilter) fwd(x *G.Node) (*G.Node, error) {
	k := f.kernel.Shape()[3]
	pad := k / 2
	conv, err := G.Conv2d(x, f.kernel, tensor.Shape{1, k}, []int{0, pad}, []int{1, 1}, []int{1, 1})
	if err != nil {
		return nil, err
	}
	act, err := G.Rectify(conv)
	if err != nil {
		return nil, err
	}
	if !f.pool {
		return act, nil
	}
	return G.MaxPool2D(act, tensor.Shape{1, 2}, []int{0, 0}, []int{1, 2})
}

// convEncoder chains three (Conv2d, ReLU, MaxPool(2)) stages over
// channels 1 -> 16 -> 8 -> 4 (spec §4.5 conv architecture), then
// flattens to feed the shared dense bottleneck/decoder.
type convEncoder struct {
	filters  []*convFilter
	outWidth int
	outChan  int
}

func buildConvEncoder(g *G.ExprGraph, windowSize int) *convEncoder {
	channels := []int{1, 16, 8, 4}
	filters := make([]*convFilter, 0, 3)
	for i := 0; i < 3; i++ {
		filters = append(filters, newConvFilter(g, channels[i], channels[i+1], 3, convName(i), true))
	}
	outWidth := windowSize
	for i := 0; i < 3; i++ {
		outWidth /= 2
	}
	return &convEncoder{filters: filters, outWidth: outWidth, outChan: channels[3]}
}

func convName(i int) string {
	return "conv_" + strconv.Itoa(i)
}

func (e *convEncoder) fwd(x *G.Node) (*G.Node, error) {
	var err error
	for _, f := range e.filters {
		x, err = f.fwd(x)
		if err != nil {
			return nil, err
		}
	}
	batch := x.Shape()[0]
	return G.Reshape(x, tensor.Shape{batch, e.outChan * e.outWidth})
}

func (e *convEncoder) flatDim() int {
	return e.outChan * e.outWidth
}

func (e *convEncoder) learnables() G.Nodes {
	nodes := make(G.Nodes, 0, len(e.filters))
	for _, f := range e.filters {
		nodes = append(nodes, f.kernel)
	}
	return nodes
}

func copyConvWeights(dst, src *convEncoder) error {
	for i := range dst.filters {
		if err := G.Let(dst.filters[i].kernel, src.filters[i].kernel.Value()); err != nil {
			return err
		}
	}
	return nil
}
