package nndep

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	nlp "nndep/nlp/types"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrNoModel: predict/serialize attempted before Train or
	// LoadModelFile provided parameters.
	ErrNoModel = errors.New("no model trained or loaded: call Train or LoadModelFile first")

	// ErrNotInitialized: a model exists but the transition system and
	// precomputation cache have not been set up.
	ErrNotInitialized = errors.New("parser not initialized: call Initialize before Predict")
)

// A Parser ties the transition system, feature extractor and
// classifier together: training on one side, greedy decoding on the
// other. Lifecycle: NewParser -> Train or LoadModelFile ->
// Initialize -> Predict.
type Parser struct {
	Config *Config
	Dict   *Dictionary

	system     *ArcStandard
	extractor  *FeatureExtractor
	classifier *Classifier
}

func NewParser(config *Config) *Parser {
	if config == nil {
		config = DefaultConfig()
	}
	return &Parser{Config: config}
}

// System exposes the transition system for evaluation; nil before
// Initialize.
func (p *Parser) System() *ArcStandard {
	return p.system
}

func randomDense(rows, cols int, u distuv.Uniform) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = u.Rand()
	}
	return mat.NewDense(rows, cols, data)
}

// Train builds dictionaries from the training corpus (discarding any
// previously loaded model), initializes parameters, generates oracle
// examples and runs the AdaGrad training loop. A non-nil dev corpus
// is decoded every EvalPerIter iterations to report UAS; the score is
// never used for control flow. Pretrained embeddings, when supplied,
// seed word rows by exact then lowercase match.
func (p *Parser) Train(trainSents []nlp.TaggedSentence, trainTrees []*nlp.DependencyTree,
	devSents []nlp.TaggedSentence, devTrees []*nlp.DependencyTree,
	pretrained map[string][]float64) error {

	if len(trainSents) != len(trainTrees) || len(trainSents) == 0 {
		return fmt.Errorf("got %d sentences and %d trees", len(trainSents), len(trainTrees))
	}

	p.Dict = GenDictionaries(trainSents, trainTrees, p.Config.WordCutOff)
	p.system = NewArcStandard(p.Dict.ParseLabels())
	p.extractor = &FeatureExtractor{Dict: p.Dict}

	eSize := p.Config.EmbeddingSize
	hSize := p.Config.HiddenSize
	uniform := distuv.Uniform{Min: -p.Config.InitRange, Max: p.Config.InitRange}
	E := randomDense(p.Dict.Size(), eSize, uniform)
	W1 := randomDense(hSize, eSize*p.Config.NumTokens, uniform)
	B1 := mat.NewVecDense(hSize, randomDense(1, hSize, uniform).RawRowView(0))
	W2 := randomDense(p.system.NumTransitions(), hSize, uniform)

	if pretrained != nil {
		p.seedEmbeddings(E, pretrained)
	}

	dataset, preComputed, _, err := GenTrainExamples(p.system, p.extractor, trainSents, trainTrees, p.Config.NumPreComputed)
	if err != nil {
		return err
	}
	p.classifier = NewClassifier(p.Config, dataset, E, W1, B1, W2, preComputed)
	trainer := NewTrainer(p.classifier, p.Config)

	startTime := time.Now()
	for iter := 0; iter < p.Config.MaxIter; iter++ {
		cost := trainer.TakeStep()
		log.Printf("Iteration %d: cost = %f, correct(%%) = %f", iter, cost.Cost, cost.PercentCorrect)

		if devSents != nil && iter%p.Config.EvalPerIter == 0 {
			// cache is stale after every update; rebuild before decoding
			p.classifier.PreCompute()
			predicted := make([]*nlp.DependencyTree, len(devSents))
			for i, sent := range devSents {
				predicted[i] = p.predictInner(sent)
			}
			result := p.system.Evaluate(devSents, predicted, devTrees)
			log.Printf("Dev UAS: %f", result["UASwoPunc"])
		}
	}
	log.Println("TRAIN Total Time:", time.Since(startTime))
	return nil
}

// seedEmbeddings overlays pretrained vectors onto word rows. Rows
// whose pretrained vector has the wrong dimension are reported and
// keep their random initialization.
func (p *Parser) seedEmbeddings(E *mat.Dense, pretrained map[string][]float64) {
	found := 0
	mismatch := false
	for i := 0; i < p.Dict.NumWords(); i++ {
		word := p.Dict.Words.ValueOf(i)
		vec, exists := pretrained[word]
		if !exists {
			vec, exists = pretrained[strings.ToLower(word)]
		}
		if !exists {
			continue
		}
		if len(vec) != p.Config.EmbeddingSize {
			if !mismatch {
				log.Printf("Pretrained embedding dimension %d does not match configured size %d; affected rows keep random initialization",
					len(vec), p.Config.EmbeddingSize)
				mismatch = true
			}
			continue
		}
		copy(E.RawRowView(i), vec)
		found++
	}
	log.Printf("Found embeddings: %d / %d", found, p.Dict.NumWords())
}

// Initialize prepares for decoding after Train or LoadModelFile:
// instantiates the transition system and rebuilds the precomputation
// cache from the current parameters. Idempotent.
func (p *Parser) Initialize() error {
	if p.Dict == nil || p.classifier == nil {
		return ErrNoModel
	}
	p.system = NewArcStandard(p.Dict.ParseLabels())
	p.extractor = &FeatureExtractor{Dict: p.Dict}
	p.classifier.PreCompute()
	return nil
}

// Predict greedily decodes a tagged sentence: exactly 2n transitions,
// each the highest-scoring legal one (ties broken by enumeration
// order). Pure with respect to parser state.
func (p *Parser) Predict(sent nlp.TaggedSentence) (*nlp.DependencyTree, error) {
	if p.classifier == nil {
		return nil, ErrNoModel
	}
	if p.system == nil || !p.classifier.cacheReady() {
		return nil, ErrNotInitialized
	}
	return p.predictInner(sent), nil
}

func (p *Parser) predictInner(sent nlp.TaggedSentence) *nlp.DependencyTree {
	c := p.system.InitialConfiguration(sent)
	for k := 0; k < 2*len(sent); k++ {
		scores := p.classifier.ComputeScores(p.extractor.Features(c))
		optTrans := ""
		optScore := 0.0
		for j, t := range p.system.Transitions {
			if (optTrans == "" || scores[j] > optScore) && p.system.CanApply(c, t) {
				optTrans = t
				optScore = scores[j]
			}
		}
		p.system.Apply(c, optTrans)
	}
	return c.Tree
}

// Evaluate scores predicted trees against gold; see
// ArcStandard.Evaluate for the metric keys.
func (p *Parser) Evaluate(sents []nlp.TaggedSentence, predicted, gold []*nlp.DependencyTree) (map[string]float64, error) {
	if p.system == nil {
		return nil, ErrNotInitialized
	}
	return p.system.Evaluate(sents, predicted, gold), nil
}
