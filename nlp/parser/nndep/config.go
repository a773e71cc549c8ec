package nndep

// Config collects the training and scoring options of the parser.
// Defaults follow the reference hyper-parameters of the cube-activation
// feed-forward parser.
type Config struct {
	// dictionary
	WordCutOff int

	// network shape
	EmbeddingSize int
	HiddenSize    int
	NumTokens     int

	// training
	InitRange    float64
	MaxIter      int
	BatchSize    int
	AdaAlpha     float64
	AdaEps       float64
	RegParameter float64
	DropProb     float64
	EvalPerIter  int

	// scoring
	NumPreComputed int

	// number of concurrent workers for batch gradient computation;
	// 0 lets the trainer pick
	TrainingThreads int
}

func DefaultConfig() *Config {
	return &Config{
		WordCutOff:     1,
		EmbeddingSize:  50,
		HiddenSize:     200,
		NumTokens:      NumTokens,
		InitRange:      0.01,
		MaxIter:        20000,
		BatchSize:      10000,
		AdaAlpha:       0.01,
		AdaEps:         1e-6,
		RegParameter:   1e-8,
		DropProb:       0.5,
		EvalPerIter:    100,
		NumPreComputed: 100000,
	}
}
