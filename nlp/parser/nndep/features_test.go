package nndep

import (
	"testing"

	nlp "nndep/nlp/types"
)

func TestFeatureLayout(t *testing.T) {
	dict := testDict()
	extractor := &FeatureExtractor{Dict: dict}
	system := NewArcStandard(dict.ParseLabels())
	c := system.InitialConfiguration(testSent)

	feature := extractor.Features(c)
	if len(feature) != NumTokens {
		t.Fatal("Got", len(feature), "feature slots, expected", NumTokens)
	}

	nWords, nPOS := dict.NumWords(), dict.NumPOS()
	for j := 0; j < 18; j++ {
		if feature[j] < 0 || feature[j] >= nWords {
			t.Error("Word slot", j, ": got ID", feature[j], "outside [0,", nWords, ")")
		}
	}
	for j := 18; j < 36; j++ {
		if feature[j] < nWords || feature[j] >= nWords+nPOS {
			t.Error("POS slot", j, ": got ID", feature[j], "outside the POS range")
		}
	}
	for j := 36; j < 48; j++ {
		if feature[j] < nWords+nPOS || feature[j] >= dict.Size() {
			t.Error("Label slot", j, ": got ID", feature[j], "outside the label range")
		}
	}
}

func TestInitialFeatures(t *testing.T) {
	dict := testDict()
	extractor := &FeatureExtractor{Dict: dict}
	system := NewArcStandard(dict.ParseLabels())
	c := system.InitialConfiguration(testSent)
	feature := extractor.Features(c)

	nullWord := dict.WordID(nlp.NULL_TOKEN)
	// stack(2), stack(1) are absent
	if feature[0] != nullWord || feature[1] != nullWord {
		t.Error("Got", feature[0], feature[1], "for absent stack slots, expected", nullWord)
	}
	// stack(0) is the dummy root, which reads back as the null ID
	if feature[2] != nullWord {
		t.Error("Got", feature[2], "for the root slot, expected", nullWord)
	}
	if feature[3] != dict.WordID("Dogs") {
		t.Error("Got", feature[3], "for buffer(0), expected", dict.WordID("Dogs"))
	}
	if feature[4] != dict.WordID("bark") || feature[5] != dict.WordID("loudly") {
		t.Error("Got", feature[4], feature[5], "for buffer(1..2)")
	}
	// no children yet
	nullLabel := dict.LabelID(nlp.NULL_TOKEN)
	for j := 6; j < 18; j++ {
		if feature[j] != nullWord {
			t.Error("Child word slot", j, ": got", feature[j], "expected", nullWord)
		}
	}
	for j := 36; j < 48; j++ {
		if feature[j] != nullLabel {
			t.Error("Child label slot", j, ": got", feature[j], "expected", nullLabel)
		}
	}
}

func TestChildFeatures(t *testing.T) {
	dict := testDict()
	extractor := &FeatureExtractor{Dict: dict}
	system := NewArcStandard(dict.ParseLabels())
	c := system.InitialConfiguration(testSent)
	for _, trans := range []string{"S", "S", "L(subj)"} {
		system.Apply(c, trans)
	}
	// stack [0 2], token 1 attached as left child of 2
	feature := extractor.Features(c)
	if feature[6] != dict.WordID("Dogs") {
		t.Error("Got", feature[6], "for the leftmost child of stack(0), expected", dict.WordID("Dogs"))
	}
	if feature[36] != dict.LabelID("subj") {
		t.Error("Got", feature[36], "for the leftmost child label, expected", dict.LabelID("subj"))
	}
}
