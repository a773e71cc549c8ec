package types

const (
	UNKNOWN_TOKEN = "-UNKNOWN-"
	NULL_TOKEN    = "-NULL-"
	ROOT_TOKEN    = "-ROOT-"

	// NONEXIST marks an absent node index or an unset head.
	NONEXIST = -1
)

type DepRel string

func (d DepRel) String() string {
	return string(d)
}

type TaggedToken struct {
	Token, POS string
}

// A TaggedSentence is the parser's input: tokens with their
// part-of-speech tags, 0-based (no dummy root element).
type TaggedSentence []TaggedToken

func (b TaggedSentence) Tokens() []string {
	retval := make([]string, len(b))
	for i, val := range b {
		retval[i] = val.Token
	}
	return retval
}

func (b TaggedSentence) Equal(other TaggedSentence) bool {
	if len(b) != len(other) {
		return false
	}
	for i, val := range b {
		if val != other[i] {
			return false
		}
	}
	return true
}
