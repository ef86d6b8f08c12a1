package model

import (
	"fmt"

	"github.com/nlpodyssey/spago/pkg/mat"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/nlpodyssey/spago/pkg/ml/nn/activation"
)

const leakyReLUAlpha = 0.01

var activations = map[string]ag.OpName{
	"sigmoid":    ag.OpSigmoid,
	"relu":       ag.OpReLU,
	"leaky-relu": ag.OpLeakyReLU,
	"tanh":       ag.OpTanh,
}

// activationOp looks up the graph operator of an activation by name
func activationOp(name string) (ag.OpName, error) {
	op, ok := activations[name]
	if !ok {
		return -1, fmt.Errorf("unknown activation %q", name)
	}
	return op, nil
}

func newActivation(op ag.OpName) *activation.Model {
	if op == ag.OpLeakyReLU {
		return activation.New(op, nn.NewParam(mat.NewScalar(leakyReLUAlpha), nn.RequiresGrad(false)))
	}
	return activation.New(op)
}
