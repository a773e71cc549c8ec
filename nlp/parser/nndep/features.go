package nndep

// NumTokens is the fixed number of feature slots: 18 word IDs, 18 POS
// IDs, 12 label IDs. The scorer's parameter layout depends on both the
// count and the slot order produced below.
const NumTokens = 48

// A FeatureExtractor reads a configuration and produces the
// fixed-layout integer feature vector consumed by the classifier.
type FeatureExtractor struct {
	Dict *Dictionary
}

// Features extracts the 48-slot vector: the top three stack elements
// and first three buffer elements (word+POS), then for each of the
// two topmost stack elements its leftmost/rightmost children, second
// leftmost/rightmost children, and leftmost-of-leftmost /
// rightmost-of-rightmost grandchildren (word+POS+label). Absent
// references yield the -NULL- IDs. Output is the word block, the POS
// block, then the label block.
func (x *FeatureExtractor) Features(c *Configuration) []int {
	fWord := make([]int, 0, 18)
	fPos := make([]int, 0, 18)
	fLabel := make([]int, 0, 12)

	for j := 2; j >= 0; j-- {
		index := c.GetStack(j)
		fWord = append(fWord, x.Dict.WordID(c.GetWord(index)))
		fPos = append(fPos, x.Dict.PosID(c.GetPOS(index)))
	}
	for j := 0; j <= 2; j++ {
		index := c.GetBuffer(j)
		fWord = append(fWord, x.Dict.WordID(c.GetWord(index)))
		fPos = append(fPos, x.Dict.PosID(c.GetPOS(index)))
	}
	for j := 0; j <= 1; j++ {
		k := c.GetStack(j)
		for _, index := range []int{
			c.GetLeftChild(k, 1),
			c.GetRightChild(k, 1),
			c.GetLeftChild(k, 2),
			c.GetRightChild(k, 2),
			c.GetLeftChild(c.GetLeftChild(k, 1), 1),
			c.GetRightChild(c.GetRightChild(k, 1), 1),
		} {
			fWord = append(fWord, x.Dict.WordID(c.GetWord(index)))
			fPos = append(fPos, x.Dict.PosID(c.GetPOS(index)))
			fLabel = append(fLabel, x.Dict.LabelID(c.GetLabel(index)))
		}
	}

	feature := make([]int, 0, NumTokens)
	feature = append(feature, fWord...)
	feature = append(feature, fPos...)
	feature = append(feature, fLabel...)
	return feature
}
