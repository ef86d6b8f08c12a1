package model

import (
	"encoding/json"
	"fmt"

	"github.com/nlpodyssey/spago/pkg/mat"
	"github.com/nlpodyssey/spago/pkg/mat/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/initializers"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/nlpodyssey/spago/pkg/ml/nn/linear"
	"github.com/nlpodyssey/spago/pkg/ml/nn/stack"

	"featurenet/pkg/dataset"
)

var (
	_ Classifier = &Network{}
	_ nn.Model   = &Network{}
)

// Classifier scores every vocabulary label for an input vector. Predict must not change the
// classifier parameters, so a loaded classifier can serve concurrent predictions.
type Classifier interface {
	Predict(input []float64) []float64
	InputSize() int
	OutputSize() int
	json.Marshaler
	json.Unmarshaler
}

// Network is a fully connected feed-forward network. The activation is applied on every layer,
// the output layer included.
type Network struct {
	Sizes      []int
	Activation string
	// Layers alternates a linear layer mapping Sizes[l] inputs to Sizes[l+1] outputs with its activation
	Layers *stack.Model
}

// NewNetwork creates a network with zero parameters; call Init before training.
func NewNetwork(inputs, outputs int, hiddenLayers []int, activation string) (*Network, error) {
	op, err := activationOp(activation)
	if err != nil {
		return nil, &dataset.ConfigurationError{Reason: err.Error()}
	}
	sizes := append([]int{inputs}, hiddenLayers...)
	sizes = append(sizes, outputs)
	for _, size := range sizes {
		if size <= 0 {
			return nil, &dataset.ConfigurationError{Reason: fmt.Sprintf("invalid layer sizes %v", sizes)}
		}
	}
	var layers []nn.Model
	for l := 0; l < len(sizes)-1; l++ {
		layers = append(layers, linear.New(sizes[l], sizes[l+1]), newActivation(op))
	}
	return &Network{Sizes: sizes, Activation: activation, Layers: stack.New(layers...)}, nil
}

// Init draws weights from a Xavier uniform distribution and zeroes the biases.
func (n *Network) Init(seed uint64) {
	op, _ := activationOp(n.Activation)
	rnd := rand.NewLockedRand(seed)
	for _, layer := range n.linearLayers() {
		initializers.XavierUniform(layer.W.Value(), initializers.Gain(op), rnd)
		initializers.Zeros(layer.B.Value())
	}
}

func (n *Network) linearLayers() []*linear.Model {
	var out []*linear.Model
	for _, layer := range n.Layers.Layers {
		if l, ok := layer.(*linear.Model); ok {
			out = append(out, l)
		}
	}
	return out
}

// NewProc returns a processor running the network on g.
func (n *Network) NewProc(g *ag.Graph) nn.Processor {
	return n.Layers.NewProc(g)
}

func (n *Network) InputSize() int {
	return n.Sizes[0]
}

func (n *Network) OutputSize() int {
	return n.Sizes[len(n.Sizes)-1]
}

// InputNode adds input to g, padded with zeros or truncated to InputSize.
func (n *Network) InputNode(g *ag.Graph, input []float64) ag.Node {
	return g.NewVariable(mat.NewVecDense(resize(input, n.InputSize())), false)
}

// TargetNode adds the expected output to g, padded with zeros or truncated to OutputSize.
func (n *Network) TargetNode(g *ag.Graph, output []float64) ag.Node {
	return g.NewVariable(mat.NewVecDense(resize(output, n.OutputSize())), false)
}

func resize(values []float64, size int) []float64 {
	out := make([]float64, size)
	copy(out, values)
	return out
}

// Predict runs the network on input. Inputs shorter than InputSize are padded with zeros.
func (n *Network) Predict(input []float64) []float64 {
	g := ag.NewGraph()
	defer g.Clear()
	proc := n.NewProc(g)
	proc.SetMode(nn.Inference)
	y := proc.Forward(n.InputNode(g, input))[0]
	return append([]float64(nil), y.Value().Data()...)
}

type networkJSON struct {
	Sizes      []int       `json:"sizes"`
	Activation string      `json:"activation"`
	Weights    [][]float64 `json:"weights"`
	Biases     [][]float64 `json:"biases"`
}

func (n *Network) MarshalJSON() ([]byte, error) {
	out := networkJSON{Sizes: n.Sizes, Activation: n.Activation}
	for _, layer := range n.linearLayers() {
		out.Weights = append(out.Weights, append([]float64(nil), layer.W.Value().Data()...))
		out.Biases = append(out.Biases, append([]float64(nil), layer.B.Value().Data()...))
	}
	return json.Marshal(out)
}

func (n *Network) UnmarshalJSON(data []byte) error {
	var in networkJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.Sizes) < 2 {
		return fmt.Errorf("network needs at least two layers, got %v", in.Sizes)
	}
	loaded, err := NewNetwork(in.Sizes[0], in.Sizes[len(in.Sizes)-1], in.Sizes[1:len(in.Sizes)-1], in.Activation)
	if err != nil {
		return err
	}
	layers := loaded.linearLayers()
	if len(in.Weights) != len(layers) || len(in.Biases) != len(layers) {
		return fmt.Errorf("network has %d layers, got %d weights and %d biases", len(layers), len(in.Weights), len(in.Biases))
	}
	for l, layer := range layers {
		rows, cols := layer.W.Value().Dims()
		if len(in.Weights[l]) != rows*cols || len(in.Biases[l]) != rows {
			return fmt.Errorf("layer %d: parameter sizes do not match %dx%d", l, rows, cols)
		}
		layer.W.ReplaceValue(mat.NewDense(rows, cols, in.Weights[l]))
		layer.B.ReplaceValue(mat.NewVecDense(in.Biases[l]))
	}
	*n = *loaded
	return nil
}
