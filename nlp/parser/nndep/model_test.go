package nndep

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestModelRoundTrip(t *testing.T) {
	dict := testDict()
	config := smallConfig()
	system := NewArcStandard(dict.ParseLabels())
	cls := testClassifier(config, nil, system.NumTransitions(), dict)
	cls.preComputed = make([]int, 250)
	for i := range cls.preComputed {
		cls.preComputed[i] = i * 3
	}

	var buf bytes.Buffer
	if err := writeModel(&buf, dict, cls, config); err != nil {
		t.Fatal(err)
	}

	config2 := DefaultConfig()
	dict2, cls2, err := readModel(&buf, config2)
	if err != nil {
		t.Fatal(err)
	}
	if config2.EmbeddingSize != config.EmbeddingSize || config2.HiddenSize != config.HiddenSize {
		t.Error("Got sizes", config2.EmbeddingSize, config2.HiddenSize,
			"expected", config.EmbeddingSize, config.HiddenSize)
	}
	if dict2.NumWords() != dict.NumWords() || dict2.NumPOS() != dict.NumPOS() || dict2.NumLabels() != dict.NumLabels() {
		t.Fatal("Dictionary sizes differ after round trip")
	}
	for i := 0; i < dict.NumWords(); i++ {
		if dict2.Words.ValueOf(i) != dict.Words.ValueOf(i) {
			t.Error("Word", i, ": got", dict2.Words.ValueOf(i), "expected", dict.Words.ValueOf(i))
		}
	}
	for i := 0; i < dict.NumLabels(); i++ {
		if dict2.Labels.ValueOf(i) != dict.Labels.ValueOf(i) {
			t.Error("Label", i, ": got", dict2.Labels.ValueOf(i), "expected", dict.Labels.ValueOf(i))
		}
	}
	if !mat.Equal(cls.E, cls2.E) {
		t.Error("Embeddings differ after round trip")
	}
	if !mat.Equal(cls.W1, cls2.W1) {
		t.Error("W1 differs after round trip")
	}
	if !mat.Equal(cls.B1, cls2.B1) {
		t.Error("b1 differs after round trip")
	}
	if !mat.Equal(cls.W2, cls2.W2) {
		t.Error("W2 differs after round trip")
	}
	if len(cls2.PreComputed()) != len(cls.PreComputed()) {
		t.Fatal("Got", len(cls2.PreComputed()), "precomputed keys, expected", len(cls.PreComputed()))
	}
	for i, key := range cls.PreComputed() {
		if cls2.PreComputed()[i] != key {
			t.Error("Precomputed key", i, ": got", cls2.PreComputed()[i], "expected", key)
		}
	}
	if cls2.NumTransitions() != dict.NumLabels()*2-1 {
		t.Error("Got", cls2.NumTransitions(), "transitions, expected", dict.NumLabels()*2-1)
	}
}

const tinyModel = `dict=1
pos=1
label=1
embeddingSize=1
hiddenSize=2
numTokens=1
preComputed=0
w 0.1
p 0.2
l 0.3
0.1 0.2
`

func TestReadModel(t *testing.T) {
	// valid: one W1 column, b1, two W2 columns of one transition each
	model := tinyModel + "0.4 0.5\n0.6\n0.7\n"
	dict, cls, err := readModel(strings.NewReader(model), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if dict.NumWords() != 1 || cls.NumTransitions() != 1 {
		t.Error("Got", dict.NumWords(), "words and", cls.NumTransitions(), "transitions, expected 1 1")
	}
	if cls.B1.AtVec(1) != 0.5 {
		t.Error("Got b1[1] =", cls.B1.AtVec(1), "expected 0.5")
	}
	if cls.W2.At(0, 1) != 0.7 {
		t.Error("Got W2(0,1) =", cls.W2.At(0, 1), "expected 0.7")
	}
}

func TestReadModelBiasCountMismatch(t *testing.T) {
	// b1 carries three values for hiddenSize=2
	model := tinyModel + "0.4 0.5 0.6\n0.6\n0.7\n"
	if _, _, err := readModel(strings.NewReader(model), DefaultConfig()); err == nil {
		t.Error("Expected error for a bias vector of the wrong length")
	}
}

func TestReadModelTruncated(t *testing.T) {
	if _, _, err := readModel(strings.NewReader(tinyModel), DefaultConfig()); err == nil {
		t.Error("Expected error for a truncated model file")
	}
}

func TestReadModelBadHeader(t *testing.T) {
	if _, _, err := readModel(strings.NewReader("dict=0\n"), DefaultConfig()); err == nil {
		t.Error("Expected error for a non-positive header value")
	}
	if _, _, err := readModel(strings.NewReader("size=5\n"), DefaultConfig()); err == nil {
		t.Error("Expected error for an unknown header name")
	}
}

func TestReadModelDuplicateEntry(t *testing.T) {
	model := strings.Replace(tinyModel, "pos=1", "pos=2", 1)
	model = strings.Replace(model, "p 0.2\n", "p 0.2\np 0.25\n", 1)
	if _, _, err := readModel(strings.NewReader(model), DefaultConfig()); err == nil {
		t.Error("Expected error for a duplicate dictionary entry")
	}
}
