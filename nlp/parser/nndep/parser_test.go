package nndep

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	nlp "nndep/nlp/types"
)

func trainingConfig() *Config {
	config := DefaultConfig()
	config.EmbeddingSize = 8
	config.HiddenSize = 12
	config.MaxIter = 1000
	config.BatchSize = 6
	config.AdaAlpha = 0.1
	config.RegParameter = 1e-8
	config.DropProb = 0
	config.NumPreComputed = 200
	config.TrainingThreads = 1
	return config
}

func quietly(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
}

func TestPredictBeforeTrain(t *testing.T) {
	parser := NewParser(nil)
	if _, err := parser.Predict(testSent); err != ErrNoModel {
		t.Error("Got", err, "expected", ErrNoModel)
	}
	if err := parser.WriteModelFile(filepath.Join(t.TempDir(), "model")); err != ErrNoModel {
		t.Error("Got", err, "expected", ErrNoModel)
	}
	if err := parser.Initialize(); err != ErrNoModel {
		t.Error("Got", err, "expected", ErrNoModel)
	}
}

func TestTrainEmptyCorpus(t *testing.T) {
	parser := NewParser(trainingConfig())
	if err := parser.Train(nil, nil, nil, nil, nil); err == nil {
		t.Error("Expected error training on an empty corpus")
	}
}

func TestTrainAndPredict(t *testing.T) {
	quietly(t)
	gold := testTree()
	parser := NewParser(trainingConfig())
	err := parser.Train([]nlp.TaggedSentence{testSent}, []*nlp.DependencyTree{gold}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	// a trained but uninitialized parser refuses to predict
	if _, err := parser.Predict(testSent); err != ErrNotInitialized {
		t.Fatal("Got", err, "expected", ErrNotInitialized)
	}
	if err := parser.Initialize(); err != nil {
		t.Fatal(err)
	}

	predicted, err := parser.Predict(testSent)
	if err != nil {
		t.Fatal(err)
	}
	if !predicted.Equal(gold) {
		t.Error("Got tree\n", predicted, "expected\n", gold)
	}

	result, err := parser.Evaluate([]nlp.TaggedSentence{testSent},
		[]*nlp.DependencyTree{predicted}, []*nlp.DependencyTree{gold})
	if err != nil {
		t.Fatal(err)
	}
	if result["UAS"] != 1.0 {
		t.Error("Got UAS", result["UAS"], "expected 1")
	}

	// model file round trip through a fresh parser
	modelFile := filepath.Join(t.TempDir(), "model")
	if err := parser.WriteModelFile(modelFile); err != nil {
		t.Fatal(err)
	}
	loaded := NewParser(nil)
	if err := loaded.LoadModelFile(modelFile); err != nil {
		t.Fatal(err)
	}
	if _, err := loaded.Predict(testSent); err != ErrNotInitialized {
		t.Fatal("Got", err, "expected", ErrNotInitialized)
	}
	if err := loaded.Initialize(); err != nil {
		t.Fatal(err)
	}
	reparsed, err := loaded.Predict(testSent)
	if err != nil {
		t.Fatal(err)
	}
	if !reparsed.Equal(predicted) {
		t.Error("Got tree\n", reparsed, "after model reload, expected\n", predicted)
	}
}

func TestPredictUnknownWords(t *testing.T) {
	quietly(t)
	parser := NewParser(trainingConfig())
	err := parser.Train([]nlp.TaggedSentence{testSent}, []*nlp.DependencyTree{testTree()}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := parser.Initialize(); err != nil {
		t.Fatal(err)
	}

	unseen := nlp.TaggedSentence{
		{Token: "Cats", POS: "NNS"},
		{Token: "meow", POS: "VBP"},
	}
	tree, err := parser.Predict(unseen)
	if err != nil {
		t.Fatal(err)
	}
	if tree.N != len(unseen) {
		t.Fatal("Got tree of size", tree.N, "expected", len(unseen))
	}
	if !tree.IsTree() {
		t.Error("Predicted structure is not a tree:\n", tree)
	}
	if !tree.IsSingleRoot() {
		t.Error("Predicted tree does not have a single root:\n", tree)
	}
}

func TestTrainWithPretrainedEmbeddings(t *testing.T) {
	quietly(t)
	config := trainingConfig()
	config.MaxIter = 5
	vec := make([]float64, config.EmbeddingSize)
	for i := range vec {
		vec[i] = 0.5
	}
	pretrained := map[string][]float64{
		"dogs":     vec,
		"mismatch": {1, 2},
	}
	parser := NewParser(config)
	err := parser.Train([]nlp.TaggedSentence{testSent}, []*nlp.DependencyTree{testTree()}, nil, nil, pretrained)
	if err != nil {
		t.Fatal(err)
	}
}

func TestTrainWithDevEval(t *testing.T) {
	quietly(t)
	config := trainingConfig()
	config.MaxIter = 3
	config.EvalPerIter = 2
	parser := NewParser(config)
	err := parser.Train(
		[]nlp.TaggedSentence{testSent}, []*nlp.DependencyTree{testTree()},
		[]nlp.TaggedSentence{testSent}, []*nlp.DependencyTree{testTree()}, nil)
	if err != nil {
		t.Fatal(err)
	}
}
