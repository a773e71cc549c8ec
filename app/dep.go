package app

import (
	"log"
	"os"

	"nndep/nlp/format/conll"
	"nndep/nlp/format/embed"
	"nndep/nlp/parser/nndep"
	nlp "nndep/nlp/types"
	"nndep/util/conf"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func depConfig() *nndep.Config {
	config := nndep.DefaultConfig()
	config.MaxIter = Iterations
	config.BatchSize = BatchSize
	config.EmbeddingSize = EmbeddingSize
	config.HiddenSize = HiddenSize
	config.AdaAlpha = LearningRate
	config.AdaEps = AdaEps
	config.RegParameter = RegParameter
	config.DropProb = DropProb
	config.EvalPerIter = EvalPerIter
	config.NumPreComputed = NumPreComputed
	config.WordCutOff = WordCutOff
	return config
}

func DepTrainConfigOut(outModelFile string) {
	log.Println("Configuration")
	log.Printf("Iterations:\t\t%d", Iterations)
	log.Printf("Batch Size:\t\t%d", BatchSize)
	log.Printf("Embedding Size:\t%d", EmbeddingSize)
	log.Printf("Hidden Size:\t\t%d", HiddenSize)
	log.Printf("Learning Rate:\t%v", LearningRate)
	log.Printf("Dropout:\t\t%v", DropProb)
	log.Printf("Model file:\t\t%s", outModelFile)
	log.Println()
	log.Println("Data")
	log.Printf("Train file (conll):\t%s", tConll)
	if !VerifyExists(tConll) {
		os.Exit(1)
	}
	if dConll != "" {
		log.Printf("Dev file (conll):\t%s", dConll)
		if !VerifyExists(dConll) {
			os.Exit(1)
		}
	}
	if embedFile != "" {
		log.Printf("Embedding file:\t%s", embedFile)
		if !VerifyExists(embedFile) {
			os.Exit(1)
		}
	}
}

func DepTrain(cmd *commander.Command, args []string) {
	REQUIRED_FLAGS := []string{"tc", "m"}
	VerifyFlags(cmd, REQUIRED_FLAGS)
	DepTrainConfigOut(modelFile)

	log.Println()
	log.Println("Reading training sentences from", tConll)
	s, e := conll.ReadFile(tConll)
	if e != nil {
		log.Fatalln(e)
	}
	log.Println("Read", len(s), "sentences from", tConll)
	trainSents, trainTrees, e := conll.Conll2PartsCorpus(s)
	if e != nil {
		log.Fatalln(e)
	}

	var devSents []nlp.TaggedSentence
	var devTrees []*nlp.DependencyTree
	if dConll != "" {
		d, e := conll.ReadFile(dConll)
		if e != nil {
			log.Fatalln(e)
		}
		log.Println("Read", len(d), "sentences from", dConll)
		devSents, devTrees, e = conll.Conll2PartsCorpus(d)
		if e != nil {
			log.Fatalln(e)
		}
	}

	var pretrained map[string][]float64
	if embedFile != "" {
		embeddings, e := embed.ReadFile(embedFile)
		if e != nil {
			log.Fatalln(e)
		}
		log.Println("Embedding File", embedFile, ": #Words =", len(embeddings.Vectors), ", dim =", embeddings.Dim)
		pretrained = embeddings.Vectors
	}

	parser := nndep.NewParser(depConfig())
	if err := parser.Train(trainSents, trainTrees, devSents, devTrees, pretrained); err != nil {
		log.Fatalln(err)
	}
	log.Println("Done Training")
	log.Println("Writing model to", modelFile)
	if err := parser.WriteModelFile(modelFile); err != nil {
		log.Fatalln(err)
	}
	log.Println("Done writing model")
}

func DepParse(cmd *commander.Command, args []string) {
	REQUIRED_FLAGS := []string{"in", "m", "oc"}
	VerifyFlags(cmd, REQUIRED_FLAGS)
	if !VerifyExists(modelFile) || !VerifyExists(input) {
		os.Exit(1)
	}

	parser := nndep.NewParser(nndep.DefaultConfig())
	log.Println("Loading model from", modelFile)
	if err := parser.LoadModelFile(modelFile); err != nil {
		log.Fatalln(err)
	}
	if err := parser.Initialize(); err != nil {
		log.Fatalln(err)
	}
	if punctFile != "" {
		tags, err := conf.ReadFile(punctFile)
		if err != nil {
			log.Fatalln("Failed reading punctuation tags file:", err)
		}
		parser.System().SetPunctuationTags(tags.Values)
	}

	devi, e := conll.ReadFile(input)
	if e != nil {
		log.Fatalln(e)
	}
	log.Println("Read", len(devi), "sentences from", input)
	sents, goldTrees, e := conll.Conll2PartsCorpus(devi)
	if e != nil {
		log.Fatalln(e)
	}

	log.Print("Parsing")
	predicted := make([]*nlp.DependencyTree, len(sents))
	for i, sent := range sents {
		tree, err := parser.Predict(sent)
		if err != nil {
			log.Fatalln(err)
		}
		predicted[i] = tree
	}

	result, err := parser.Evaluate(sents, predicted, goldTrees)
	if err == nil {
		log.Println("UAS =", result["UASwoPunc"])
		log.Println("LAS =", result["LASwoPunc"])
	}

	if e := conll.WriteFile(outConll, conll.Parts2ConllCorpus(sents, predicted)); e != nil {
		log.Fatalln(e)
	}
	log.Println("Wrote", len(predicted), "in conll format to", outConll)
}

func DepTrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       DepTrain,
		UsageLine: "dep-train <file options> [arguments]",
		Short:     "trains a neural transition-based dependency parser",
		Long: `
trains a neural transition-based dependency parser

	$ ./nndep dep-train -tc <conll> -m <model> [-dc <dev conll>] [-em <embeddings>] [options]

`,
		Flag: *flag.NewFlagSet("dep-train", flag.ExitOnError),
	}
	cmd.Flag.IntVar(&Iterations, "it", 20000, "Number of training iterations")
	cmd.Flag.IntVar(&BatchSize, "bs", 10000, "Mini-batch size")
	cmd.Flag.IntVar(&EmbeddingSize, "es", 50, "Embedding size")
	cmd.Flag.IntVar(&HiddenSize, "hs", 200, "Hidden layer size")
	cmd.Flag.Float64Var(&LearningRate, "lr", 0.01, "AdaGrad learning rate")
	cmd.Flag.Float64Var(&AdaEps, "eps", 1e-6, "AdaGrad epsilon")
	cmd.Flag.Float64Var(&RegParameter, "reg", 1e-8, "L2 regularization weight")
	cmd.Flag.Float64Var(&DropProb, "dp", 0.5, "Dropout probability")
	cmd.Flag.IntVar(&EvalPerIter, "eval", 100, "Dev evaluation interval")
	cmd.Flag.IntVar(&NumPreComputed, "pc", 100000, "Precomputed cache size")
	cmd.Flag.IntVar(&WordCutOff, "wc", 1, "Word frequency cutoff")

	cmd.Flag.StringVar(&tConll, "tc", "", "Training Conll File")
	cmd.Flag.StringVar(&dConll, "dc", "", "Dev Conll File (optional)")
	cmd.Flag.StringVar(&modelFile, "m", "", "Output Model File")
	cmd.Flag.StringVar(&embedFile, "em", "", "Pretrained Embedding File (optional)")
	return cmd
}

func DepParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       DepParse,
		UsageLine: "dep-parse <file options> [arguments]",
		Short:     "parses with a trained neural dependency parser",
		Long: `
parses with a trained neural dependency parser

	$ ./nndep dep-parse -in <input conll> -m <model> -oc <out conll> [-punct <tags file>]

`,
		Flag: *flag.NewFlagSet("dep-parse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&input, "in", "", "Input Conll File")
	cmd.Flag.StringVar(&modelFile, "m", "", "Model File")
	cmd.Flag.StringVar(&outConll, "oc", "", "Output Conll File")
	cmd.Flag.StringVar(&punctFile, "punct", "", "Punctuation POS tags file (optional)")
	return cmd
}
