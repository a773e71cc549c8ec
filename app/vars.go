package app

import (
	"log"
	"os"

	"github.com/gonuts/commander"
)

var (
	// processing options
	Iterations     int
	BatchSize      int
	EmbeddingSize  int
	HiddenSize     int
	LearningRate   float64
	AdaEps         float64
	RegParameter   float64
	DropProb       float64
	EvalPerIter    int
	NumPreComputed int
	WordCutOff     int

	// file names
	tConll     string
	dConll     string
	input      string
	outConll   string
	modelFile  string
	embedFile  string
	punctFile  string
)

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f.Value.String() == "" {
			log.Printf("Required flag %s not set", f.Name)
			cmd.Usage()
			os.Exit(1)
		}
	}
}
