package nndep

import (
	"testing"

	nlp "nndep/nlp/types"
)

func testSystem() *ArcStandard {
	return NewArcStandard(testDict().ParseLabels())
}

func TestTransitionInventory(t *testing.T) {
	system := testSystem()
	if system.NumTransitions() != 7 {
		t.Fatal("Got", system.NumTransitions(), "transitions, expected 7")
	}
	expected := []string{"L(root)", "L(adv)", "L(subj)", "R(root)", "R(adv)", "R(subj)", "S"}
	for i, trans := range expected {
		if system.Transitions[i] != trans {
			t.Error("Got", system.Transitions[i], "at", i, "expected", trans)
		}
	}
	if system.RootLabel != "root" {
		t.Error("Got root label", system.RootLabel, "expected root")
	}
}

func TestCanApply(t *testing.T) {
	system := testSystem()
	c := system.InitialConfiguration(testSent)

	if !system.CanApply(c, "S") {
		t.Error("Shift illegal in initial configuration")
	}
	if system.CanApply(c, "L(subj)") || system.CanApply(c, "R(root)") {
		t.Error("Arc transition legal with only the root on the stack")
	}

	system.Apply(c, "S")
	system.Apply(c, "S")
	// stack [0 1 2], buffer [3]
	if !system.CanApply(c, "L(subj)") {
		t.Error("Left arc illegal with three stack elements")
	}
	if !system.CanApply(c, "S") {
		t.Error("Shift illegal with a non-empty buffer")
	}

	system.Apply(c, "L(subj)")
	system.Apply(c, "S")
	system.Apply(c, "R(adv)")
	// stack [0 2], buffer empty
	if !system.CanApply(c, "R(root)") {
		t.Error("Final root attachment illegal")
	}
	if system.CanApply(c, "R(adv)") {
		t.Error("Non-root label legal for an arc from the root")
	}
	if system.CanApply(c, "S") {
		t.Error("Shift legal with an empty buffer")
	}

	system.Apply(c, "R(root)")
	if !system.IsTerminal(c) {
		t.Error("Configuration not terminal after the final transition")
	}
}

func TestOracleReplay(t *testing.T) {
	system := testSystem()
	gold := testTree()
	c := system.InitialConfiguration(testSent)

	expected := []string{"S", "S", "L(subj)", "S", "R(adv)", "R(root)"}
	for k := 0; k < 2*len(testSent); k++ {
		oracle := system.Oracle(c, gold)
		if oracle != expected[k] {
			t.Error("Got oracle", oracle, "at step", k, "expected", expected[k])
		}
		if !system.CanApply(c, oracle) {
			t.Fatal("Oracle transition", oracle, "illegal at step", k)
		}
		system.Apply(c, oracle)
	}
	if !system.IsTerminal(c) {
		t.Error("Configuration not terminal after 2n transitions")
	}
	if !c.Tree.Equal(gold) {
		t.Error("Got tree\n", c.Tree, "expected\n", gold)
	}
	if oracle := system.Oracle(c, gold); oracle != "" {
		t.Error("Got oracle", oracle, "at terminal configuration, expected none")
	}
}

func TestEvaluate(t *testing.T) {
	system := testSystem()
	gold := testTree()
	result := system.Evaluate([]nlp.TaggedSentence{testSent}, []*nlp.DependencyTree{gold}, []*nlp.DependencyTree{gold})
	if result["UAS"] != 1.0 || result["LAS"] != 1.0 {
		t.Error("Got UAS", result["UAS"], "LAS", result["LAS"], "for gold prediction, expected 1 1")
	}

	wrong := testTree()
	wrong.Set(3, 1, "adv")
	result = system.Evaluate([]nlp.TaggedSentence{testSent}, []*nlp.DependencyTree{wrong}, []*nlp.DependencyTree{gold})
	expected := 2.0 / 3.0
	if diff := result["UAS"] - expected; diff > 1e-12 || diff < -1e-12 {
		t.Error("Got UAS", result["UAS"], "expected", expected)
	}
}

func TestEvaluateWithoutPunctuation(t *testing.T) {
	system := testSystem()
	sent := nlp.TaggedSentence{
		{Token: "bark", POS: "VBP"},
		{Token: ".", POS: "."},
	}
	gold := nlp.NewDependencyTree()
	gold.Add(0, "root")
	gold.Add(1, "punct")
	predicted := nlp.NewDependencyTree()
	predicted.Add(0, "root")
	predicted.Add(0, "punct")

	result := system.Evaluate([]nlp.TaggedSentence{sent}, []*nlp.DependencyTree{predicted}, []*nlp.DependencyTree{gold})
	if result["UAS"] != 0.5 {
		t.Error("Got UAS", result["UAS"], "expected 0.5")
	}
	if result["UASwoPunc"] != 1.0 {
		t.Error("Got UASwoPunc", result["UASwoPunc"], "expected 1")
	}

	system.SetPunctuationTags([]string{"VBP"})
	result = system.Evaluate([]nlp.TaggedSentence{sent}, []*nlp.DependencyTree{predicted}, []*nlp.DependencyTree{gold})
	if result["UASwoPunc"] != 0.0 {
		t.Error("Got UASwoPunc", result["UASwoPunc"], "with overridden tags, expected 0")
	}
}
