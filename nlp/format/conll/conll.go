package conll

// Package conll reads and writes CoNLL-X format files
// For a description see http://ilk.uvt.nl/conll/#dataformat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	nlp "nndep/nlp/types"
)

const (
	FIELD_SEPARATOR = "\t"
	NUM_FIELDS      = 10
)

// A Row is a single parsed row of a conll data set
// *Commented fields are not in use
type Row struct {
	ID      int
	Form    string
	CPosTag string
	PosTag  string
	FeatStr string
	Head    int
	DepRel  string
	// Lemma string
	// PHead int
	// PDepRel string
}

func (r Row) String() string {
	fields := []string{
		fmt.Sprintf("%d", r.ID),
		r.Form,
		"_",
		r.CPosTag,
		r.PosTag,
		formatField(r.FeatStr),
		fmt.Sprintf("%d", r.Head),
		r.DepRel,
		"_",
		"_"}
	return strings.Join(fields, FIELD_SEPARATOR)
}

// A Sentence is a map of Rows using their ids
type Sentence map[int]Row

type Sentences []Sentence

func ParseInt(value string) (int, error) {
	if value == "_" {
		return 0, nil
	}
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

func ParseString(value string) string {
	if value == "_" {
		return ""
	}
	return value
}

func formatField(value string) string {
	if value == "" {
		return "_"
	}
	return value
}

func ParseRow(record []string) (Row, error) {
	var row Row
	id, err := ParseInt(record[0])
	if err != nil {
		return row, fmt.Errorf("Error parsing ID field (%s): %s", record[0], err.Error())
	}
	row.ID = id

	form := ParseString(record[1])
	if form == "" {
		return row, errors.New("Empty FORM field")
	}
	row.Form = form

	cpostag := ParseString(record[3])
	row.CPosTag = cpostag

	postag := ParseString(record[4])
	if postag == "" {
		return row, errors.New("Empty POSTAG field")
	}
	row.PosTag = postag

	row.FeatStr = ParseString(record[5])

	head, err := ParseInt(record[6])
	if err != nil {
		return row, fmt.Errorf("Error parsing HEAD field (%s): %s", record[6], err.Error())
	}
	row.Head = head

	deprel := ParseString(record[7])
	if deprel == "" {
		return row, errors.New("Empty DEPREL field")
	}
	row.DepRel = deprel

	return row, nil
}

func Read(reader io.Reader) (Sentences, error) {
	var sentences []Sentence
	currentSent := make(Sentence)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	var i int
	for scanner.Scan() {
		i++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) == 0 {
			if len(currentSent) > 0 {
				sentences = append(sentences, currentSent)
				currentSent = make(Sentence)
			}
			continue
		}
		record := strings.Split(line, FIELD_SEPARATOR)
		if len(record) != NUM_FIELDS {
			return nil, fmt.Errorf("Line %d: got %d fields, expected %d", i, len(record), NUM_FIELDS)
		}
		row, err := ParseRow(record)
		if err != nil {
			return nil, fmt.Errorf("Error processing line %d at statement %d: %s", i, len(sentences), err.Error())
		}
		currentSent[row.ID] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(currentSent) > 0 {
		sentences = append(sentences, currentSent)
	}
	return sentences, nil
}

func ReadFile(filename string) (Sentences, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

func Write(writer io.Writer, sents Sentences) error {
	for _, sent := range sents {
		for i := 1; i <= len(sent); i++ {
			row := sent[i]
			if _, err := writer.Write(append([]byte(row.String()), '\n')); err != nil {
				return err
			}
		}
		if _, err := writer.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

func WriteFile(filename string, sents Sentences) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, sents)
}

// Conll2Parts converts a conll sentence to the parser's input pair:
// a tagged sentence and its (possibly unset) gold dependency tree.
func Conll2Parts(sent Sentence) (nlp.TaggedSentence, *nlp.DependencyTree, error) {
	tagged := make(nlp.TaggedSentence, 0, len(sent))
	tree := nlp.NewDependencyTree()
	for i := 1; i <= len(sent); i++ {
		row, exists := sent[i]
		if !exists {
			return nil, nil, fmt.Errorf("Sentence is missing token ID %d", i)
		}
		tagged = append(tagged, nlp.TaggedToken{Token: row.Form, POS: row.PosTag})
		tree.Add(row.Head, nlp.DepRel(row.DepRel))
	}
	return tagged, tree, nil
}

func Conll2PartsCorpus(corpus Sentences) ([]nlp.TaggedSentence, []*nlp.DependencyTree, error) {
	sents := make([]nlp.TaggedSentence, len(corpus))
	trees := make([]*nlp.DependencyTree, len(corpus))
	for i, sent := range corpus {
		tagged, tree, err := Conll2Parts(sent)
		if err != nil {
			return nil, nil, fmt.Errorf("Sentence %d: %s", i, err.Error())
		}
		sents[i] = tagged
		trees[i] = tree
	}
	return sents, trees, nil
}

// Parts2Conll renders a tagged sentence and its predicted tree back
// into conll rows.
func Parts2Conll(tagged nlp.TaggedSentence, tree *nlp.DependencyTree) Sentence {
	sent := make(Sentence, len(tagged))
	for i, token := range tagged {
		row := Row{
			ID:      i + 1,
			Form:    token.Token,
			CPosTag: token.POS,
			PosTag:  token.POS,
			Head:    tree.GetHead(i + 1),
			DepRel:  string(tree.GetLabel(i + 1)),
		}
		sent[row.ID] = row
	}
	return sent
}

func Parts2ConllCorpus(tagged []nlp.TaggedSentence, trees []*nlp.DependencyTree) Sentences {
	sentCorpus := make(Sentences, len(trees))
	for i, tree := range trees {
		sentCorpus[i] = Parts2Conll(tagged[i], tree)
	}
	return sentCorpus
}
