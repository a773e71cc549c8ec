package nndep

import (
	"fmt"
	"strings"

	nlp "nndep/nlp/types"
)

// Default POS tags treated as punctuation when evaluating attachment
// scores without punctuation (PTB tag set).
var DefaultPunctuationTags = []string{"``", "''", ".", ",", ":"}

// ArcStandard is the arc-standard transition system over in-place
// mutable configurations.
//
// Transition System:
// LA-r (S|wi|wj, B, A) => (S|wj,    B, A+{(wj,r,wi)})
// RA-r (S|wi|wj, B, A) => (S|wi,    B, A+{(wi,r,wj)})
// SH   (S,    wi|B, A) => (S|wi,    B, A)
//
// The transition inventory is the fixed enumeration L(label) for every
// label, then R(label) for every label, then S.
type ArcStandard struct {
	Labels      []string
	Transitions []string
	RootLabel   string
	punctTags   map[string]bool
}

func NewArcStandard(labels []string) *ArcStandard {
	a := &ArcStandard{
		Labels:      labels,
		Transitions: make([]string, 0, 2*len(labels)+1),
		RootLabel:   labels[0],
		punctTags:   make(map[string]bool, len(DefaultPunctuationTags)),
	}
	for _, label := range labels {
		a.Transitions = append(a.Transitions, "L("+label+")")
	}
	for _, label := range labels {
		a.Transitions = append(a.Transitions, "R("+label+")")
	}
	a.Transitions = append(a.Transitions, "S")
	for _, tag := range DefaultPunctuationTags {
		a.punctTags[tag] = true
	}
	return a
}

// SetPunctuationTags overrides the POS tags excluded by the
// *woPunc evaluation metrics.
func (a *ArcStandard) SetPunctuationTags(tags []string) {
	a.punctTags = make(map[string]bool, len(tags))
	for _, tag := range tags {
		a.punctTags[tag] = true
	}
}

func (a *ArcStandard) NumTransitions() int {
	return len(a.Transitions)
}

// InitialConfiguration starts with the dummy root on the stack and
// every token on the buffer.
func (a *ArcStandard) InitialConfiguration(sent nlp.TaggedSentence) *Configuration {
	return NewConfiguration(sent)
}

// IsTerminal reports whether parsing is done: empty buffer, only the
// root left on the stack.
func (a *ArcStandard) IsTerminal(c *Configuration) bool {
	return c.StackSize() == 1 && c.BufferSize() == 0
}

func transitionLabel(t string) string {
	return t[2 : len(t)-1]
}

// CanApply decides transition legality. Arc transitions need two
// stack elements (besides leaving the root reachable) and may touch
// the root only with the root label; the final right-arc to the root
// must wait for an empty buffer. Shift needs a non-empty buffer.
func (a *ArcStandard) CanApply(c *Configuration, t string) bool {
	if strings.HasPrefix(t, "L") || strings.HasPrefix(t, "R") {
		label := transitionLabel(t)
		var h int
		if strings.HasPrefix(t, "L") {
			h = c.GetStack(0)
		} else {
			h = c.GetStack(1)
		}
		if h < 0 {
			return false
		}
		if h == 0 && label != a.RootLabel {
			return false
		}
	}

	nStack := c.StackSize()
	nBuffer := c.BufferSize()
	switch {
	case strings.HasPrefix(t, "L"):
		return nStack > 2
	case strings.HasPrefix(t, "R"):
		return nStack > 2 || (nStack == 2 && nBuffer == 0)
	default:
		return nBuffer > 0
	}
}

// Apply mutates the configuration. Callers must have checked CanApply.
func (a *ArcStandard) Apply(c *Configuration, t string) {
	w1 := c.GetStack(1)
	w2 := c.GetStack(0)
	switch {
	case strings.HasPrefix(t, "L"):
		c.AddArc(w2, w1, nlp.DepRel(transitionLabel(t)))
		c.RemoveSecondTopStack()
	case strings.HasPrefix(t, "R"):
		c.AddArc(w1, w2, nlp.DepRel(transitionLabel(t)))
		c.RemoveTopStack()
	default:
		if !c.Shift() {
			panic(fmt.Sprintf("Can't shift, buffer is empty: %v", c))
		}
	}
}

// Oracle returns the unique transition consistent with the gold tree:
// an arc whose child has already collected all of its own gold
// children, otherwise shift. The empty string is returned only for a
// terminal configuration.
func (a *ArcStandard) Oracle(c *Configuration, gold *nlp.DependencyTree) string {
	if a.IsTerminal(c) {
		return ""
	}
	w1 := c.GetStack(1)
	w2 := c.GetStack(0)
	if w1 > 0 && gold.GetHead(w1) == w2 {
		return "L(" + string(gold.GetLabel(w1)) + ")"
	}
	if w1 >= 0 && gold.GetHead(w2) == w1 && !c.HasOtherChild(w2, gold) {
		return "R(" + string(gold.GetLabel(w2)) + ")"
	}
	return "S"
}

// Evaluate computes unlabeled and labeled attachment scores over a
// parsed corpus, with and without punctuation tokens.
func (a *ArcStandard) Evaluate(sents []nlp.TaggedSentence, predicted, gold []*nlp.DependencyTree) map[string]float64 {
	var (
		correctHeads, correctLabeled             float64
		correctHeadsNoPunc, correctLabeledNoPunc float64
		sumArcs, sumArcsNoPunc                   float64
	)
	for i, tree := range predicted {
		goldTree := gold[i]
		for k := 1; k <= goldTree.N; k++ {
			headMatch := tree.GetHead(k) == goldTree.GetHead(k)
			labelMatch := headMatch && tree.GetLabel(k) == goldTree.GetLabel(k)
			sumArcs++
			if headMatch {
				correctHeads++
			}
			if labelMatch {
				correctLabeled++
			}
			if a.punctTags[sents[i][k-1].POS] {
				continue
			}
			sumArcsNoPunc++
			if headMatch {
				correctHeadsNoPunc++
			}
			if labelMatch {
				correctLabeledNoPunc++
			}
		}
	}
	result := make(map[string]float64, 4)
	if sumArcs > 0 {
		result["UAS"] = correctHeads / sumArcs
		result["LAS"] = correctLabeled / sumArcs
	}
	if sumArcsNoPunc > 0 {
		result["UASwoPunc"] = correctHeadsNoPunc / sumArcsNoPunc
		result["LASwoPunc"] = correctLabeledNoPunc / sumArcsNoPunc
	}
	return result
}
