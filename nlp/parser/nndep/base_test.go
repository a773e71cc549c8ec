package nndep

import (
	nlp "nndep/nlp/types"

	"gonum.org/v1/gonum/mat"
)

var testSent = nlp.TaggedSentence{
	{Token: "Dogs", POS: "NNS"},
	{Token: "bark", POS: "VBP"},
	{Token: "loudly", POS: "RB"},
}

func testTree() *nlp.DependencyTree {
	tree := nlp.NewDependencyTree()
	tree.Add(2, "subj")
	tree.Add(0, "root")
	tree.Add(2, "adv")
	return tree
}

func testDict() *Dictionary {
	return GenDictionaries([]nlp.TaggedSentence{testSent}, []*nlp.DependencyTree{testTree()}, 1)
}

// deterministic small parameter fill
func fillDense(rows, cols, seed int) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64((i*31+seed*7)%13-6) * 0.01
	}
	return mat.NewDense(rows, cols, data)
}

func testClassifier(config *Config, dataset *Dataset, numTransitions int, dict *Dictionary) *Classifier {
	E := fillDense(dict.Size(), config.EmbeddingSize, 1)
	W1 := fillDense(config.HiddenSize, config.EmbeddingSize*config.NumTokens, 2)
	B1 := mat.NewVecDense(config.HiddenSize, fillDense(1, config.HiddenSize, 3).RawRowView(0))
	W2 := fillDense(numTransitions, config.HiddenSize, 4)
	return NewClassifier(config, dataset, E, W1, B1, W2, nil)
}
