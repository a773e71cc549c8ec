package nndep

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"nndep/util"

	"gonum.org/v1/gonum/mat"
)

// Text model file codec. Layout, in order: seven name=value header
// lines (dict, pos, label, embeddingSize, hiddenSize, numTokens,
// preComputed), one line per dictionary entry with its embedding row,
// the columns of W1 (one line each), b1 on one line, the columns of
// W2 (one line each), then the precomputed cache keys, 100 per line.
// Loading reconstructs everything except the cache itself, which is
// rebuilt by Initialize.

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeModel(writer io.Writer, dict *Dictionary, cls *Classifier, config *Config) error {
	w := bufio.NewWriter(writer)
	preComputed := cls.PreComputed()
	fmt.Fprintf(w, "dict=%d\n", dict.NumWords())
	fmt.Fprintf(w, "pos=%d\n", dict.NumPOS())
	fmt.Fprintf(w, "label=%d\n", dict.NumLabels())
	fmt.Fprintf(w, "embeddingSize=%d\n", config.EmbeddingSize)
	fmt.Fprintf(w, "hiddenSize=%d\n", config.HiddenSize)
	fmt.Fprintf(w, "numTokens=%d\n", config.NumTokens)
	fmt.Fprintf(w, "preComputed=%d\n", len(preComputed))

	writeEntry := func(name string, row []float64) {
		w.WriteString(name)
		for _, v := range row {
			w.WriteByte(' ')
			w.WriteString(formatFloat(v))
		}
		w.WriteByte('\n')
	}
	index := 0
	for i := 0; i < dict.NumWords(); i++ {
		writeEntry(dict.Words.ValueOf(i), cls.E.RawRowView(index))
		index++
	}
	for i := 0; i < dict.NumPOS(); i++ {
		writeEntry(dict.POS.ValueOf(i), cls.E.RawRowView(index))
		index++
	}
	for i := 0; i < dict.NumLabels(); i++ {
		writeEntry(dict.Labels.ValueOf(i), cls.E.RawRowView(index))
		index++
	}

	w1Rows, w1Cols := cls.W1.Dims()
	for j := 0; j < w1Cols; j++ {
		for i := 0; i < w1Rows; i++ {
			if i > 0 {
				w.WriteByte(' ')
			}
			w.WriteString(formatFloat(cls.W1.At(i, j)))
		}
		w.WriteByte('\n')
	}
	for i := 0; i < cls.B1.Len(); i++ {
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(formatFloat(cls.B1.AtVec(i)))
	}
	w.WriteByte('\n')
	w2Rows, w2Cols := cls.W2.Dims()
	for j := 0; j < w2Cols; j++ {
		for i := 0; i < w2Rows; i++ {
			if i > 0 {
				w.WriteByte(' ')
			}
			w.WriteString(formatFloat(cls.W2.At(i, j)))
		}
		w.WriteByte('\n')
	}
	for i, key := range preComputed {
		w.WriteString(strconv.Itoa(key))
		if (i+1)%100 == 0 || i == len(preComputed)-1 {
			w.WriteByte('\n')
		} else {
			w.WriteByte(' ')
		}
	}
	return w.Flush()
}

type modelReader struct {
	scanner *bufio.Scanner
	line    int
}

func (r *modelReader) next() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("Model file truncated at line %d", r.line)
	}
	r.line++
	return r.scanner.Text(), nil
}

func (r *modelReader) header(name string) (int, error) {
	line, err := r.next()
	if err != nil {
		return 0, err
	}
	prefix := name + "="
	if !strings.HasPrefix(line, prefix) {
		return 0, fmt.Errorf("Line %d: expected %s<n>, got %q", r.line, prefix, line)
	}
	value, err := strconv.Atoi(line[len(prefix):])
	if err != nil {
		return 0, fmt.Errorf("Line %d: %s", r.line, err.Error())
	}
	return value, nil
}

func (r *modelReader) floatLine(expected int) ([]float64, error) {
	line, err := r.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) != expected {
		return nil, fmt.Errorf("Line %d: got %d values, expected %d", r.line, len(fields), expected)
	}
	values := make([]float64, expected)
	for i, field := range fields {
		values[i], err = strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("Line %d: %s", r.line, err.Error())
		}
	}
	return values, nil
}

func readModel(reader io.Reader, config *Config) (*Dictionary, *Classifier, error) {
	r := &modelReader{scanner: bufio.NewScanner(reader)}
	r.scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	nDict, err := r.header("dict")
	if err != nil {
		return nil, nil, err
	}
	nPOS, err := r.header("pos")
	if err != nil {
		return nil, nil, err
	}
	nLabel, err := r.header("label")
	if err != nil {
		return nil, nil, err
	}
	eSize, err := r.header("embeddingSize")
	if err != nil {
		return nil, nil, err
	}
	hSize, err := r.header("hiddenSize")
	if err != nil {
		return nil, nil, err
	}
	nTokens, err := r.header("numTokens")
	if err != nil {
		return nil, nil, err
	}
	nPreComputed, err := r.header("preComputed")
	if err != nil {
		return nil, nil, err
	}
	if nDict <= 0 || nPOS <= 0 || nLabel <= 0 || eSize <= 0 || hSize <= 0 || nTokens <= 0 || nPreComputed < 0 {
		return nil, nil, fmt.Errorf("Invalid model header: dict=%d pos=%d label=%d embeddingSize=%d hiddenSize=%d numTokens=%d preComputed=%d",
			nDict, nPOS, nLabel, eSize, hSize, nTokens, nPreComputed)
	}

	dict := &Dictionary{
		Words:  util.NewEnumSet(nDict),
		POS:    util.NewEnumSet(nPOS),
		Labels: util.NewEnumSet(nLabel),
	}
	E := mat.NewDense(nDict+nPOS+nLabel, eSize, nil)
	index := 0
	readEntries := func(n int, enum *util.EnumSet) error {
		for k := 0; k < n; k++ {
			line, err := r.next()
			if err != nil {
				return err
			}
			fields := strings.Fields(line)
			if len(fields) != eSize+1 {
				return fmt.Errorf("Line %d: got %d fields, expected entry plus %d values", r.line, len(fields), eSize)
			}
			if _, isNew := enum.Add(fields[0]); !isNew {
				return fmt.Errorf("Line %d: duplicate dictionary entry %q", r.line, fields[0])
			}
			row := E.RawRowView(index)
			for i, field := range fields[1:] {
				row[i], err = strconv.ParseFloat(field, 64)
				if err != nil {
					return fmt.Errorf("Line %d: %s", r.line, err.Error())
				}
			}
			index++
		}
		return nil
	}
	if err := readEntries(nDict, dict.Words); err != nil {
		return nil, nil, err
	}
	if err := readEntries(nPOS, dict.POS); err != nil {
		return nil, nil, err
	}
	if err := readEntries(nLabel, dict.Labels); err != nil {
		return nil, nil, err
	}
	dict.Words.Frozen = true
	dict.POS.Frozen = true
	dict.Labels.Frozen = true

	W1 := mat.NewDense(hSize, eSize*nTokens, nil)
	for j := 0; j < eSize*nTokens; j++ {
		col, err := r.floatLine(hSize)
		if err != nil {
			return nil, nil, err
		}
		for i, v := range col {
			W1.Set(i, j, v)
		}
	}
	b1Values, err := r.floatLine(hSize)
	if err != nil {
		return nil, nil, err
	}
	B1 := mat.NewVecDense(hSize, b1Values)

	numTransitions := nLabel*2 - 1
	W2 := mat.NewDense(numTransitions, hSize, nil)
	for j := 0; j < hSize; j++ {
		col, err := r.floatLine(numTransitions)
		if err != nil {
			return nil, nil, err
		}
		for i, v := range col {
			W2.Set(i, j, v)
		}
	}

	preComputed := make([]int, 0, nPreComputed)
	for len(preComputed) < nPreComputed {
		line, err := r.next()
		if err != nil {
			return nil, nil, err
		}
		for _, field := range strings.Fields(line) {
			key, err := strconv.Atoi(field)
			if err != nil {
				return nil, nil, fmt.Errorf("Line %d: %s", r.line, err.Error())
			}
			preComputed = append(preComputed, key)
		}
	}
	if len(preComputed) != nPreComputed {
		return nil, nil, fmt.Errorf("Got %d precomputed keys, expected %d", len(preComputed), nPreComputed)
	}

	config.EmbeddingSize = eSize
	config.HiddenSize = hSize
	config.NumTokens = nTokens
	cls := NewClassifier(config, nil, E, W1, B1, W2, preComputed)
	return dict, cls, nil
}

// WriteModelFile persists the trained parser.
func (p *Parser) WriteModelFile(filename string) error {
	if p.Dict == nil || p.classifier == nil {
		return ErrNoModel
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeModel(file, p.Dict, p.classifier, p.Config)
}

// LoadModelFile reads a persisted model, replacing any previously
// trained or loaded state. Initialize must be called before Predict.
func (p *Parser) LoadModelFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	dict, cls, err := readModel(file, p.Config)
	if err != nil {
		return fmt.Errorf("Failed loading model from %s: %s", filename, err.Error())
	}
	p.Dict = dict
	p.classifier = cls
	p.system = nil
	p.extractor = nil
	return nil
}
