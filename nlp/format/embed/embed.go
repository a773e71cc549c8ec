package embed

// Package embed reads pretrained word embedding files: one token per
// line followed by its whitespace-separated vector components.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type Embeddings struct {
	Vectors map[string][]float64
	Dim     int
}

// Get looks a token up, trying an exact match and then lower case.
func (e *Embeddings) Get(token string) ([]float64, bool) {
	if vec, exists := e.Vectors[token]; exists {
		return vec, true
	}
	vec, exists := e.Vectors[strings.ToLower(token)]
	return vec, exists
}

func Read(reader io.Reader) (*Embeddings, error) {
	retval := &Embeddings{Vectors: make(map[string][]float64)}
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	var line int
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if retval.Dim == 0 {
			retval.Dim = len(fields) - 1
		}
		if len(fields)-1 != retval.Dim {
			return nil, fmt.Errorf("Line %d: got %d vector components, expected %d", line, len(fields)-1, retval.Dim)
		}
		vec := make([]float64, retval.Dim)
		for i, field := range fields[1:] {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("Line %d: %s", line, err.Error())
			}
			vec[i] = value
		}
		retval.Vectors[fields[0]] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return retval, nil
}

func ReadFile(filename string) (*Embeddings, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}
