package nndep

import (
	"fmt"
	"strings"

	nlp "nndep/nlp/types"
)

// A Configuration is the parser's instantaneous state: a stack and
// buffer of token indices plus the partial tree built so far. Indices
// are 1-based into the sentence; 0 is the dummy root, NONEXIST marks
// an absent reference. It is mutated in place by applying transitions
// and discarded after the final one.
type Configuration struct {
	Sentence nlp.TaggedSentence
	Stack    []int
	Buffer   []int
	Tree     *nlp.DependencyTree
}

func NewConfiguration(sent nlp.TaggedSentence) *Configuration {
	c := &Configuration{
		Sentence: sent,
		Stack:    make([]int, 0, len(sent)+1),
		Buffer:   make([]int, 0, len(sent)),
		Tree:     nlp.NewDependencyTree(),
	}
	for i := 1; i <= len(sent); i++ {
		c.Tree.Add(nlp.NONEXIST, nlp.UNKNOWN_TOKEN)
		c.Buffer = append(c.Buffer, i)
	}
	c.Stack = append(c.Stack, 0)
	return c
}

func (c *Configuration) StackSize() int {
	return len(c.Stack)
}

func (c *Configuration) BufferSize() int {
	return len(c.Buffer)
}

// GetStack returns the k-th stack element from the top (0 = top), or
// NONEXIST when the stack is shallower than that.
func (c *Configuration) GetStack(k int) int {
	n := len(c.Stack)
	if k < 0 || k >= n {
		return nlp.NONEXIST
	}
	return c.Stack[n-1-k]
}

// GetBuffer returns the k-th buffer element from the front, or
// NONEXIST past the end.
func (c *Configuration) GetBuffer(k int) int {
	if k < 0 || k >= len(c.Buffer) {
		return nlp.NONEXIST
	}
	return c.Buffer[k]
}

// Shift moves the buffer front onto the stack.
func (c *Configuration) Shift() bool {
	if len(c.Buffer) == 0 {
		return false
	}
	c.Stack = append(c.Stack, c.Buffer[0])
	c.Buffer = c.Buffer[1:]
	return true
}

func (c *Configuration) RemoveTopStack() bool {
	if len(c.Stack) == 0 {
		return false
	}
	c.Stack = c.Stack[:len(c.Stack)-1]
	return true
}

func (c *Configuration) RemoveSecondTopStack() bool {
	n := len(c.Stack)
	if n < 2 {
		return false
	}
	c.Stack = append(c.Stack[:n-2], c.Stack[n-1])
	return true
}

// AddArc records head -> modifier with the given label in the partial
// tree.
func (c *Configuration) AddArc(head, modifier int, label nlp.DepRel) {
	c.Tree.Set(modifier, head, label)
}

// GetWord returns the surface form at a token index; the dummy root
// reads as -ROOT-, anything out of range as -NULL-.
func (c *Configuration) GetWord(k int) string {
	if k == 0 {
		return nlp.ROOT_TOKEN
	}
	if k < 1 || k > len(c.Sentence) {
		return nlp.NULL_TOKEN
	}
	return c.Sentence[k-1].Token
}

func (c *Configuration) GetPOS(k int) string {
	if k == 0 {
		return nlp.ROOT_TOKEN
	}
	if k < 1 || k > len(c.Sentence) {
		return nlp.NULL_TOKEN
	}
	return c.Sentence[k-1].POS
}

// GetLabel returns the partial-tree label of token k, -NULL- for the
// root or out-of-range indices.
func (c *Configuration) GetLabel(k int) nlp.DepRel {
	if k <= 0 || k > len(c.Sentence) {
		return nlp.NULL_TOKEN
	}
	return c.Tree.GetLabel(k)
}

// GetLeftChild returns the cnt-th leftmost child of k in the partial
// tree; "cnt-th" counts arcs left to right, not any final-tree
// property.
func (c *Configuration) GetLeftChild(k, cnt int) int {
	if k < 0 || k > c.Tree.N {
		return nlp.NONEXIST
	}
	seen := 0
	for i := 1; i < k; i++ {
		if c.Tree.GetHead(i) == k {
			seen++
			if seen == cnt {
				return i
			}
		}
	}
	return nlp.NONEXIST
}

// GetRightChild is the mirror image of GetLeftChild.
func (c *Configuration) GetRightChild(k, cnt int) int {
	if k < 0 || k > c.Tree.N {
		return nlp.NONEXIST
	}
	seen := 0
	for i := c.Tree.N; i > k; i-- {
		if c.Tree.GetHead(i) == k {
			seen++
			if seen == cnt {
				return i
			}
		}
	}
	return nlp.NONEXIST
}

// HasOtherChild reports whether k still has a gold child not yet
// attached in the partial tree.
func (c *Configuration) HasOtherChild(k int, gold *nlp.DependencyTree) bool {
	for i := 1; i <= gold.N; i++ {
		if gold.GetHead(i) == k && c.Tree.GetHead(i) != k {
			return true
		}
	}
	return false
}

func (c *Configuration) String() string {
	stackStrs := make([]string, 0, len(c.Stack))
	for _, k := range c.Stack {
		stackStrs = append(stackStrs, c.GetWord(k))
	}
	bufferStrs := make([]string, 0, len(c.Buffer))
	for _, k := range c.Buffer {
		bufferStrs = append(bufferStrs, c.GetWord(k))
	}
	numArcs := 0
	for k := 1; k <= c.Tree.N; k++ {
		if c.Tree.GetHead(k) != nlp.NONEXIST {
			numArcs++
		}
	}
	return fmt.Sprintf("([%s],\t[%s],\tA%d)",
		strings.Join(stackStrs, ","), strings.Join(bufferStrs, ","), numArcs)
}
