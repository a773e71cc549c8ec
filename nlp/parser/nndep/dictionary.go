package nndep

import (
	"log"
	"sort"

	nlp "nndep/nlp/types"
	"nndep/util"
)

// A Dictionary maps every known word, POS tag and dependency label to
// a single contiguous integer ID space: word IDs occupy [0, nWords),
// POS IDs [nWords, nWords+nPos), label IDs the remainder. The first
// three word and POS entries are always the reserved -UNKNOWN-,
// -NULL- and -ROOT- tokens; the first label entry is always -NULL-.
type Dictionary struct {
	Words  *util.EnumSet
	POS    *util.EnumSet
	Labels *util.EnumSet
}

// WordID returns the global embedding-row ID for a word.
//
// The literal -ROOT- token deliberately maps to the -NULL- entry's ID
// instead of its own; legacy parameter files were trained with this
// mapping and scoring must replicate it exactly.
func (d *Dictionary) WordID(s string) int {
	if s == nlp.ROOT_TOKEN {
		s = nlp.NULL_TOKEN
	}
	if id, exists := d.Words.IndexOf(s); exists {
		return id
	}
	id, _ := d.Words.IndexOf(nlp.UNKNOWN_TOKEN)
	return id
}

// PosID returns the global embedding-row ID for a POS tag; the -ROOT-
// tag falls back to -NULL- the same way WordID does.
func (d *Dictionary) PosID(s string) int {
	if s == nlp.ROOT_TOKEN {
		s = nlp.NULL_TOKEN
	}
	if id, exists := d.POS.IndexOf(s); exists {
		return d.Words.Len() + id
	}
	id, _ := d.POS.IndexOf(nlp.UNKNOWN_TOKEN)
	return d.Words.Len() + id
}

// LabelID returns the global embedding-row ID for a dependency label.
// Labels unseen in training map to the -NULL- sentinel.
func (d *Dictionary) LabelID(s nlp.DepRel) int {
	offset := d.Words.Len() + d.POS.Len()
	if id, exists := d.Labels.IndexOf(string(s)); exists {
		return offset + id
	}
	return offset
}

func (d *Dictionary) NumWords() int {
	return d.Words.Len()
}

func (d *Dictionary) NumPOS() int {
	return d.POS.Len()
}

func (d *Dictionary) NumLabels() int {
	return d.Labels.Len()
}

// Size is the total number of embedding rows.
func (d *Dictionary) Size() int {
	return d.Words.Len() + d.POS.Len() + d.Labels.Len()
}

// ParseLabels is the label inventory handed to the transition system:
// every known label except the -NULL- sentinel, root label first.
func (d *Dictionary) ParseLabels() []string {
	labels := make([]string, 0, d.Labels.Len()-1)
	for i := 1; i < d.Labels.Len(); i++ {
		labels = append(labels, d.Labels.ValueOf(i))
	}
	return labels
}

// GenDictionaries scans a training corpus and builds the dictionary,
// applying the word frequency cutoff. The root label is recovered from
// the gold trees and placed directly after the -NULL- sentinel.
func GenDictionaries(sents []nlp.TaggedSentence, trees []*nlp.DependencyTree, wordCutOff int) *Dictionary {
	words := make([]string, 0, len(sents)*16)
	pos := make([]string, 0, len(sents)*16)
	labels := make([]string, 0, len(sents)*16)

	for _, sent := range sents {
		for _, token := range sent {
			words = append(words, token.Token)
			pos = append(pos, token.POS)
		}
	}

	rootLabel := ""
	for _, tree := range trees {
		for k := 1; k <= tree.N; k++ {
			if tree.GetHead(k) == 0 {
				rootLabel = string(tree.GetLabel(k))
			} else {
				labels = append(labels, string(tree.GetLabel(k)))
			}
		}
	}

	knownWords := generateDict(words, wordCutOff)
	knownPos := generateDict(pos, 1)
	knownLabels := generateDict(labels, 1)

	dict := &Dictionary{
		Words:  util.NewEnumSet(len(knownWords) + 3),
		POS:    util.NewEnumSet(len(knownPos) + 3),
		Labels: util.NewEnumSet(len(knownLabels) + 2),
	}
	for _, reserved := range []string{nlp.UNKNOWN_TOKEN, nlp.NULL_TOKEN, nlp.ROOT_TOKEN} {
		dict.Words.Add(reserved)
		dict.POS.Add(reserved)
	}
	for _, word := range knownWords {
		dict.Words.Add(word)
	}
	for _, tag := range knownPos {
		dict.POS.Add(tag)
	}
	dict.Labels.Add(nlp.NULL_TOKEN)
	dict.Labels.Add(rootLabel)
	for _, label := range knownLabels {
		dict.Labels.Add(label)
	}
	dict.Words.Frozen = true
	dict.POS.Frozen = true
	dict.Labels.Frozen = true

	log.Println("#Word:", dict.NumWords())
	log.Println("#POS:", dict.NumPOS())
	log.Println("#Label:", dict.NumLabels())
	return dict
}

// generateDict orders the distinct items by descending frequency
// (ties alphabetically, for determinism) and drops items seen fewer
// than cutoff times.
func generateDict(items []string, cutoff int) []string {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item]++
	}
	retval := make([]string, 0, len(counts))
	for item, count := range counts {
		if count >= cutoff {
			retval = append(retval, item)
		}
	}
	sort.Slice(retval, func(i, j int) bool {
		ci, cj := counts[retval[i]], counts[retval[j]]
		if ci != cj {
			return ci > cj
		}
		return retval[i] < retval[j]
	})
	return retval
}
