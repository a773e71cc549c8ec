package nndep

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// A Classifier scores transitions with a two-layer network over
// concatenated feature embeddings: z = W1*x + b1, h = z^3, s = W2*h.
// The cube activation keeps the pre-activation additive across
// feature slots, which is what makes the precomputation cache work.
//
// The classifier owns the parameter tensors. Training code mutates
// them only through ApplyGradient, which invalidates the cache.
type Classifier struct {
	config *Config

	E  *mat.Dense    // one embedding row per dictionary ID
	W1 *mat.Dense    // hiddenSize x (embeddingSize * numTokens)
	B1 *mat.VecDense // hiddenSize
	W2 *mat.Dense    // numTransitions x hiddenSize

	numTransitions int

	// precomputation cache: (feature value * numTokens + slot) key ->
	// row of partial hidden pre-activations in saved
	preComputed []int
	preMap      map[int]int
	saved       *mat.Dense

	dataset *Dataset
}

// Gradients (or squared-gradient accumulators) with the same shapes
// as the classifier parameters.
type Gradients struct {
	E  *mat.Dense
	W1 *mat.Dense
	B1 *mat.VecDense
	W2 *mat.Dense
}

// A Cost is the result of one mini-batch loss/gradient computation.
// PercentCorrect is a training-health metric only.
type Cost struct {
	Cost           float64
	PercentCorrect float64
	Grad           *Gradients
}

func NewClassifier(config *Config, dataset *Dataset, E, W1 *mat.Dense, B1 *mat.VecDense, W2 *mat.Dense, preComputed []int) *Classifier {
	numTransitions, _ := W2.Dims()
	return &Classifier{
		config:         config,
		E:              E,
		W1:             W1,
		B1:             B1,
		W2:             W2,
		numTransitions: numTransitions,
		preComputed:    preComputed,
		dataset:        dataset,
	}
}

func (c *Classifier) NumTransitions() int {
	return c.numTransitions
}

// PreComputed returns the current cache key list, for serialization.
func (c *Classifier) PreComputed() []int {
	return c.preComputed
}

// cacheReady reports whether the precomputation cache reflects the
// current parameters; false after any ApplyGradient until the next
// PreCompute.
func (c *Classifier) cacheReady() bool {
	return c.preMap != nil
}

func (c *Classifier) newGradients() *Gradients {
	eRows, eCols := c.E.Dims()
	w1Rows, w1Cols := c.W1.Dims()
	w2Rows, w2Cols := c.W2.Dims()
	return &Gradients{
		E:  mat.NewDense(eRows, eCols, nil),
		W1: mat.NewDense(w1Rows, w1Cols, nil),
		B1: mat.NewVecDense(c.B1.Len(), nil),
		W2: mat.NewDense(w2Rows, w2Cols, nil),
	}
}

func (g *Gradients) add(other *Gradients) {
	g.E.Add(g.E, other.E)
	g.W1.Add(g.W1, other.W1)
	g.B1.AddVec(g.B1, other.B1)
	g.W2.Add(g.W2, other.W2)
}

// ComputeScores runs the network forward for one feature vector and
// returns one score per transition. Cached (slot, ID) pairs skip
// their slice of the W1 product.
func (c *Classifier) ComputeScores(feature []int) []float64 {
	if c.E == nil {
		panic("Classifier has no parameters")
	}
	if len(feature) != c.config.NumTokens {
		panic(fmt.Sprintf("Got feature vector of length %d, expected %d", len(feature), c.config.NumTokens))
	}
	eSize := c.config.EmbeddingSize
	hSize := c.config.HiddenSize
	hidden := make([]float64, hSize)
	for j, tok := range feature {
		if id, exists := c.preMap[tok*c.config.NumTokens+j]; exists {
			floats.Add(hidden, c.saved.RawRowView(id))
			continue
		}
		offset := j * eSize
		erow := c.E.RawRowView(tok)
		for h := 0; h < hSize; h++ {
			hidden[h] += floats.Dot(c.W1.RawRowView(h)[offset:offset+eSize], erow)
		}
	}
	for h := 0; h < hSize; h++ {
		z := hidden[h] + c.B1.AtVec(h)
		hidden[h] = z * z * z
	}
	scores := make([]float64, c.numTransitions)
	for i := 0; i < c.numTransitions; i++ {
		scores[i] = floats.Dot(c.W2.RawRowView(i), hidden)
	}
	return scores
}

// PreCompute rebuilds the cache of partial hidden pre-activations for
// the configured key set from the current parameters. Idempotent.
func (c *Classifier) PreCompute() {
	eSize := c.config.EmbeddingSize
	hSize := c.config.HiddenSize
	c.preMap = make(map[int]int, len(c.preComputed))
	c.saved = mat.NewDense(maxInt(len(c.preComputed), 1), hSize, nil)
	for id, key := range c.preComputed {
		tok := key / c.config.NumTokens
		pos := key % c.config.NumTokens
		offset := pos * eSize
		erow := c.E.RawRowView(tok)
		row := c.saved.RawRowView(id)
		for h := 0; h < hSize; h++ {
			row[h] = floats.Dot(c.W1.RawRowView(h)[offset:offset+eSize], erow)
		}
		c.preMap[key] = id
	}
}

// ApplyGradient subtracts already-scaled update tensors from the
// parameters and invalidates the precomputation cache, which is a
// function of the parameters it was built from.
func (c *Classifier) ApplyGradient(g *Gradients) {
	c.E.Sub(c.E, g.E)
	c.W1.Sub(c.W1, g.W1)
	c.B1.SubVec(c.B1, g.B1)
	c.W2.Sub(c.W2, g.W2)
	c.preMap = nil
	c.saved = nil
}

// ComputeCostFunction draws a uniform sample of batchSize training
// examples, computes the mini-batch loss and parameter gradients with
// dropout over hidden units, and adds the L2 penalty. Gradient
// contributions of the examples are computed concurrently and summed;
// no parameters are modified.
func (c *Classifier) ComputeCostFunction(batchSize int, regParameter, dropProb float64) *Cost {
	if c.dataset == nil {
		panic("Classifier has no training dataset")
	}
	if batchSize > c.dataset.Len() {
		batchSize = c.dataset.Len()
	}
	sample := make([]*Example, batchSize)
	for i, p := range rand.Perm(c.dataset.Len())[:batchSize] {
		sample[i] = c.dataset.Examples[p]
	}

	workers := c.config.TrainingThreads
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(sample) {
		workers = 1
	}
	chunk := (len(sample) + workers - 1) / workers

	costs := make([]*Cost, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := minInt(lo+chunk, len(sample))
		if lo >= hi {
			costs[w] = &Cost{Grad: c.newGradients()}
			continue
		}
		wg.Add(1)
		go func(w int, examples []*Example, seed int64) {
			defer wg.Done()
			costs[w] = c.costForExamples(examples, batchSize, dropProb, rand.New(rand.NewSource(seed)))
		}(w, sample[lo:hi], rand.Int63())
	}
	wg.Wait()

	cost := costs[0]
	for _, part := range costs[1:] {
		cost.Cost += part.Cost
		cost.PercentCorrect += part.PercentCorrect
		cost.Grad.add(part.Grad)
	}
	c.addL2Regularization(cost, regParameter)
	return cost
}

func (c *Classifier) costForExamples(examples []*Example, batchSize int, dropProb float64, rng *rand.Rand) *Cost {
	eSize := c.config.EmbeddingSize
	hSize := c.config.HiddenSize
	cost := &Cost{Grad: c.newGradients()}
	active := make([]int, 0, hSize)

	for _, ex := range examples {
		feature, label := ex.Feature, ex.Label

		active = active[:0]
		for h := 0; h < hSize; h++ {
			if rng.Float64() > dropProb {
				active = append(active, h)
			}
		}

		hidden := make([]float64, hSize)
		hidden3 := make([]float64, hSize)
		for j, tok := range feature {
			offset := j * eSize
			erow := c.E.RawRowView(tok)
			for _, h := range active {
				hidden[h] += floats.Dot(c.W1.RawRowView(h)[offset:offset+eSize], erow)
			}
		}
		for _, h := range active {
			hidden[h] += c.B1.AtVec(h)
			hidden3[h] = hidden[h] * hidden[h] * hidden[h]
		}

		// softmax over the legal transitions only; illegal entries
		// (label -1) stay out of the normalization entirely
		scores := make([]float64, c.numTransitions)
		optLabel := -1
		for i := range label {
			if label[i] >= 0 {
				w2row := c.W2.RawRowView(i)
				var s float64
				for _, h := range active {
					s += w2row[h] * hidden3[h]
				}
				scores[i] = s
				if optLabel < 0 || s > scores[optLabel] {
					optLabel = i
				}
			}
		}
		maxScore := scores[optLabel]
		var sum1, sum2 float64
		for i := range label {
			if label[i] >= 0 {
				scores[i] = math.Exp(scores[i] - maxScore)
				if label[i] == 1 {
					sum2 += scores[i]
				}
				sum1 += scores[i]
			}
		}
		cost.Cost += (math.Log(sum1) - math.Log(sum2)) / float64(batchSize)
		if label[optLabel] == 1 {
			cost.PercentCorrect += 1.0 / float64(batchSize)
		}

		gradHidden3 := make([]float64, hSize)
		for i := range label {
			if label[i] >= 0 {
				delta := -(float64(label[i]) - scores[i]/sum1) / float64(batchSize)
				w2row := c.W2.RawRowView(i)
				gW2row := cost.Grad.W2.RawRowView(i)
				for _, h := range active {
					gW2row[h] += delta * hidden3[h]
					gradHidden3[h] += delta * w2row[h]
				}
			}
		}
		gradHidden := make([]float64, hSize)
		for _, h := range active {
			gradHidden[h] = gradHidden3[h] * 3 * hidden[h] * hidden[h]
			cost.Grad.B1.SetVec(h, cost.Grad.B1.AtVec(h)+gradHidden[h])
		}
		for j, tok := range feature {
			offset := j * eSize
			erow := c.E.RawRowView(tok)
			gErow := cost.Grad.E.RawRowView(tok)
			for _, h := range active {
				w1row := c.W1.RawRowView(h)
				gW1row := cost.Grad.W1.RawRowView(h)
				gh := gradHidden[h]
				for k := 0; k < eSize; k++ {
					gW1row[offset+k] += gh * erow[k]
					gErow[k] += gh * w1row[offset+k]
				}
			}
		}
	}
	return cost
}

// addL2Regularization penalizes all four parameter tensors.
func (c *Classifier) addL2Regularization(cost *Cost, regParameter float64) {
	for _, pair := range []struct {
		param, grad *mat.Dense
	}{
		{c.W1, cost.Grad.W1},
		{c.W2, cost.Grad.W2},
		{c.E, cost.Grad.E},
	} {
		data := pair.param.RawMatrix().Data
		cost.Cost += 0.5 * regParameter * floats.Dot(data, data)
		var scaled mat.Dense
		scaled.Scale(regParameter, pair.param)
		pair.grad.Add(pair.grad, &scaled)
	}
	b1data := c.B1.RawVector().Data
	cost.Cost += 0.5 * regParameter * floats.Dot(b1data, b1data)
	var scaledB mat.VecDense
	scaledB.ScaleVec(regParameter, c.B1)
	cost.Grad.B1.AddVec(cost.Grad.B1, &scaledB)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
