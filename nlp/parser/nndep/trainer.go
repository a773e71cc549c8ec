package nndep

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// A Trainer drives mini-batch training with AdaGrad updates. It owns
// the running squared-gradient accumulators; each step divides the raw
// gradient elementwise by sqrt(accumulated) + eps before scaling by
// the fixed learning rate, so rarely-touched embedding rows take large
// steps while hot parameters stay stable.
//
// Steps are strictly sequential: each one reads and writes the shared
// parameters and accumulators.
type Trainer struct {
	classifier *Classifier
	config     *Config
	sumSq      *Gradients
}

func NewTrainer(classifier *Classifier, config *Config) *Trainer {
	return &Trainer{
		classifier: classifier,
		config:     config,
		sumSq:      classifier.newGradients(),
	}
}

// TakeStep runs one mini-batch: cost/gradient computation, AdaGrad
// scaling, and a single parameter update through the classifier.
func (t *Trainer) TakeStep() *Cost {
	cost := t.classifier.ComputeCostFunction(t.config.BatchSize, t.config.RegParameter, t.config.DropProb)
	t.scale(cost.Grad)
	t.classifier.ApplyGradient(cost.Grad)
	return cost
}

// scale turns raw gradients into AdaGrad update deltas in place,
// accumulating squared gradients as it goes.
func (t *Trainer) scale(g *Gradients) {
	alpha, eps := t.config.AdaAlpha, t.config.AdaEps
	scaleDense := func(grad, sumSq *mat.Dense) {
		gData := grad.RawMatrix().Data
		sData := sumSq.RawMatrix().Data
		for i, gv := range gData {
			sData[i] += gv * gv
			gData[i] = alpha * gv / (math.Sqrt(sData[i]) + eps)
		}
	}
	scaleDense(g.E, t.sumSq.E)
	scaleDense(g.W1, t.sumSq.W1)
	scaleDense(g.W2, t.sumSq.W2)

	gData := g.B1.RawVector().Data
	sData := t.sumSq.B1.RawVector().Data
	for i, gv := range gData {
		sData[i] += gv * gv
		gData[i] = alpha * gv / (math.Sqrt(sData[i]) + eps)
	}
}
