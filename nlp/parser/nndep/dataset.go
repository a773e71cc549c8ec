package nndep

import (
	"fmt"
	"log"
	"sort"

	nlp "nndep/nlp/types"
)

// An Example is one training instance: a feature vector plus a
// per-transition label vector with 1 for the oracle transition, 0 for
// legal non-oracle transitions, and -1 for illegal ones.
type Example struct {
	Feature []int
	Label   []int
}

type Dataset struct {
	NumFeatures, NumLabels int
	Examples               []*Example
}

func NewDataset(numFeatures, numLabels int) *Dataset {
	return &Dataset{NumFeatures: numFeatures, NumLabels: numLabels}
}

func (d *Dataset) AddExample(feature, label []int) {
	d.Examples = append(d.Examples, &Example{feature, label})
}

func (d *Dataset) Len() int {
	return len(d.Examples)
}

// GenTrainExamples replays every projective gold tree through the
// oracle, recording one example per transition and tallying
// occurrence counts of every (feature value, slot) pair. The top
// numPreComputed pairs by count are returned as the precomputation
// key set. Non-projective trees contribute nothing; their count is
// returned for diagnostics.
func GenTrainExamples(system *ArcStandard, extractor *FeatureExtractor,
	sents []nlp.TaggedSentence, trees []*nlp.DependencyTree,
	numPreComputed int) (*Dataset, []int, int, error) {

	dataset := NewDataset(NumTokens, system.NumTransitions())
	tokPosCount := make(map[int]int)
	numNonProj := 0

	log.Println("Generate training examples...")
	for i, tree := range trees {
		if i > 0 && i%1000 == 0 {
			log.Println("At sentence", i)
		}
		if !tree.IsProjective() {
			numNonProj++
			continue
		}
		c := system.InitialConfiguration(sents[i])
		for k := 0; k < tree.N*2; k++ {
			oracle := system.Oracle(c, tree)
			feature := extractor.Features(c)
			label := make([]int, system.NumTransitions())
			numGold := 0
			for j, t := range system.Transitions {
				switch {
				case t == oracle:
					label[j] = 1
					numGold++
				case system.CanApply(c, t):
					label[j] = 0
				default:
					label[j] = -1
				}
			}
			if numGold != 1 {
				return nil, nil, 0, fmt.Errorf("Sentence %d step %d: oracle produced no legal transition", i, k)
			}
			dataset.AddExample(feature, label)
			for j, f := range feature {
				tokPosCount[f*len(feature)+j]++
			}
			system.Apply(c, oracle)
		}
	}
	log.Println("#Train Examples:", dataset.Len())
	if numNonProj > 0 {
		log.Println("Skipped", numNonProj, "non-projective sentence(s)")
	}

	return dataset, topKeys(tokPosCount, numPreComputed), numNonProj, nil
}

// topKeys returns the k keys with the highest counts, ties by key for
// determinism.
func topKeys(counts map[int]int, k int) []int {
	keys := make([]int, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := counts[keys[i]], counts[keys[j]]
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	if len(keys) > k {
		keys = keys[:k]
	}
	return keys
}
