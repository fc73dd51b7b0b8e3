package autoencoder

import (
	"strconv"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// denseLayer is a fully connected layer of the auto-encoder, built the
// same way the teacher's network.fcLayer composes a matmul, a
// broadcast bias add, and an activation (network/FullyConnected.go).
type denseLayer struct {
	weights *G.Node
	bias    *G.Node
	relu    bool
}

func newDenseLayer(g *G.ExprGraph, in, out int, name string, relu bool) *denseLayer {
	w := G.NewMatrix(g, tensor.Float64, G.WithShape(in, out),
		G.WithName(name+"_w"), G.WithInit(G.GlorotN(1.0)))
	b := G.NewVector(g, tensor.Float64, G.WithShape(out),
		G.WithName(name+"_b"), G.WithInit(G.Zeroes()))
	return &denseLayer{weights: w, bias: b, relu: relu}
}

func (l *denseLayer) fwd(x *G.Node) (*G.Node, error) {
	xw, err := G.Mul(x, l.weights)
	if err != nil {
		return nil, err
	}
	xwb, err := G.BroadcastAdd(xw, l.bias, nil, []byte{0})
	if err != nil {
		return nil, err
	}
	if !l.relu {
		return xwb, nil
	}
	return G.Rectify(xwb)
}

func (l *denseLayer) learnables() G.Nodes {
	return G.Nodes{l.weights, l.bias}
}

// buildDenseStack chains fully connected layers of the given sizes
// (len(sizes)-1 layers), applying ReLU to every layer except the last
// — the bottleneck (encoder) or the reconstruction (decoder) stays
// linear, mirroring the teacher's pattern of an identity final layer
// (network/MultiHeadMLP.go adds a final Identity()-activated layer).
func buildDenseStack(g *G.ExprGraph, sizes []int, prefix string) []*denseLayer {
	layers := make([]*denseLayer, 0, len(sizes)-1)
	for i := 0; i+1 < len(sizes); i++ {
		relu := i+2 < len(sizes)
		layers = append(layers, newDenseLayer(g, sizes[i], sizes[i+1], layerName(prefix, i), relu))
	}
	return layers
}

func layerName(prefix string, i int) string {
	return prefix + "_" + strconv.Itoa(i)
}

func fwdStack(layers []*denseLayer, x *G.Node) (*G.Node, error) {
	var err error
	for _, l := range layers {
		x, err = l.fwd(x)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

func stackLearnables(layers []*denseLayer) G.Nodes {
	var nodes G.Nodes
	for _, l := range layers {
		nodes = append(nodes, l.learnables()...)
	}
	return nodes
}

// copyDenseWeights copies the raw tensor values of src's learnables
// into dst, used to move trained weights from the training-batch graph
// to a fresh inference graph (spec's narrow backend interface, §9) —
// the same role the teacher's network.Set plays between two
// differently-batched clones of a NeuralNet (network/NeuralNet.go).
func copyDenseWeights(dst, src []*denseLayer) error {
	for i := range dst {
		if err := G.Let(dst[i].weights, src[i].weights.Value()); err != nil {
			return err
		}
		if err := G.Let(dst[i].bias, src[i].bias.Value()); err != nil {
			return err
		}
	}
	return nil
}
