package types

import "fmt"

// A DependencyTree stores one head and one relation label per token.
// Token positions are 1-based; position 0 is the dummy root, whose
// head stays NONEXIST.
type DependencyTree struct {
	N      int
	heads  []int
	labels []DepRel
}

func NewDependencyTree() *DependencyTree {
	return &DependencyTree{
		heads:  []int{NONEXIST},
		labels: []DepRel{UNKNOWN_TOKEN},
	}
}

// Add appends the next token's dependency.
func (t *DependencyTree) Add(head int, label DepRel) {
	t.N++
	t.heads = append(t.heads, head)
	t.labels = append(t.labels, label)
}

// Set overwrites the dependency of token k.
func (t *DependencyTree) Set(k, head int, label DepRel) {
	if k <= 0 || k > t.N {
		panic(fmt.Sprintf("Token index %d out of range 1..%d", k, t.N))
	}
	t.heads[k] = head
	t.labels[k] = label
}

func (t *DependencyTree) GetHead(k int) int {
	if k < 0 || k > t.N {
		return NONEXIST
	}
	return t.heads[k]
}

func (t *DependencyTree) GetLabel(k int) DepRel {
	if k <= 0 || k > t.N {
		return NULL_TOKEN
	}
	return t.labels[k]
}

// GetRoot returns the single token headed by the dummy root, or
// NONEXIST if there is not exactly one.
func (t *DependencyTree) GetRoot() int {
	root := NONEXIST
	for k := 1; k <= t.N; k++ {
		if t.GetHead(k) == 0 {
			if root != NONEXIST {
				return NONEXIST
			}
			root = k
		}
	}
	return root
}

func (t *DependencyTree) IsSingleRoot() bool {
	return t.GetRoot() != NONEXIST
}

// IsTree verifies that every token has a head in range and that
// every head chain reaches the dummy root without cycling.
func (t *DependencyTree) IsTree() bool {
	for k := 1; k <= t.N; k++ {
		if h := t.GetHead(k); h < 0 || h > t.N {
			return false
		}
		node, steps := k, 0
		for node != 0 {
			node = t.GetHead(node)
			steps++
			if steps > t.N {
				return false
			}
		}
	}
	return true
}

// IsProjective reports whether the tree can be drawn over the linear
// token order with no crossing arcs. Non-trees are non-projective.
func (t *DependencyTree) IsProjective() bool {
	if !t.IsTree() {
		return false
	}
	for m1 := 1; m1 <= t.N; m1++ {
		h1 := t.GetHead(m1)
		lo1, hi1 := minmax(h1, m1)
		for m2 := m1 + 1; m2 <= t.N; m2++ {
			h2 := t.GetHead(m2)
			lo2, hi2 := minmax(h2, m2)
			if lo1 < lo2 && lo2 < hi1 && hi1 < hi2 {
				return false
			}
			if lo2 < lo1 && lo1 < hi2 && hi2 < hi1 {
				return false
			}
		}
	}
	return true
}

func (t *DependencyTree) Equal(other *DependencyTree) bool {
	if other == nil || t.N != other.N {
		return false
	}
	for k := 1; k <= t.N; k++ {
		if t.GetHead(k) != other.GetHead(k) || t.GetLabel(k) != other.GetLabel(k) {
			return false
		}
	}
	return true
}

func (t *DependencyTree) String() string {
	retval := make([]byte, 0, t.N*16)
	for k := 1; k <= t.N; k++ {
		retval = append(retval, []byte(fmt.Sprintf("%d\t%d\t%s\n", k, t.GetHead(k), t.GetLabel(k)))...)
	}
	return string(retval)
}

func minmax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
