// Package id3 learns decision trees from categorical observations with the
// ID3 algorithm: recursive greedy splits on the attribute with the highest
// information gain, with majority-label fallbacks for empty, exhausted or
// under-populated nodes.
//
// Attribute values are strings; continuous signals are discretized before
// training (see Discretizer) and the same policy must be applied again at
// classification time.
package id3

import (
	"errors"
	"fmt"
	"math"

	"github.com/miles-hollifield/BuildingGameAI-sub000/pkg/sequence"
)

// Stopping rules for the recursive builder. A split below the gain threshold
// is noise; a mixed node with fewer examples than the split minimum becomes a
// majority leaf instead of splitting further.
const (
	MinGainThreshold    = 0.01
	MinExamplesForSplit = 3
)

// DataPoint is one training example: categorical attribute values plus the
// action label observed with them.
type DataPoint struct {
	Attributes []string
	Label      string
}

// DataSet couples examples with their attribute names. Every point must carry
// exactly one value per named attribute.
type DataSet struct {
	AttributeNames []string
	Points         []DataPoint
}

// Add appends one example.
func (ds *DataSet) Add(label string, attributes ...string) {
	ds.Points = append(ds.Points, DataPoint{Attributes: attributes, Label: label})
}

// Node is one node of a learned tree: a leaf carrying a label, or an internal
// split mapping each observed value of one attribute to a child. Order keeps
// the values in first-seen training order, which fixes the fallback child for
// values unseen at training time.
type Node struct {
	Label    string
	Attr     int
	Order    []string
	Children map[string]*Node
}

// IsLeaf reports whether the node carries a label rather than a split.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is a learned decision tree plus the attribute names its splits refer
// to. Classification inputs must list values in the same attribute order.
type Tree struct {
	AttributeNames []string
	Root           *Node
}

// Classify walks the tree for one attribute vector and returns the label of
// the leaf it reaches. A value missing from an internal node's children falls
// back to the first child in training order.
func (t *Tree) Classify(attributes []string) string {
	n := t.Root
	for n != nil && !n.IsLeaf() {
		v := ""
		if n.Attr < len(attributes) {
			v = attributes[n.Attr]
		}
		child, ok := n.Children[v]
		if !ok {
			child = n.Children[n.Order[0]]
		}
		n = child
	}
	if n == nil {
		return ""
	}
	return n.Label
}

// Entropy is the Shannon entropy, in bits, of the label distribution over
// examples. Empty input has zero entropy.
func Entropy(examples []DataPoint) float64 {
	if len(examples) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, p := range examples {
		counts[p.Label]++
	}
	total := float64(len(examples))
	h := 0.0
	for _, c := range counts {
		q := float64(c) / total
		h -= q * math.Log2(q)
	}
	return h
}

// InformationGain is the entropy reduction obtained by splitting examples on
// the attribute at index attr.
func InformationGain(examples []DataPoint, attr int) float64 {
	groups := sequence.GroupBy(sequence.From(examples), func(p DataPoint) string {
		return p.Attributes[attr]
	})
	total := float64(len(examples))
	remainder := 0.0
	for _, sub := range groups {
		remainder += float64(len(sub)) / total * Entropy(sub)
	}
	return Entropy(examples) - remainder
}

// Learn induces a tree from the dataset. It fails on an empty dataset or on
// any point whose attribute count disagrees with the declared names.
func Learn(ds DataSet) (*Tree, error) {
	if len(ds.Points) == 0 {
		return nil, errors.New("id3: empty dataset")
	}
	width := len(ds.AttributeNames)
	for i, p := range ds.Points {
		if len(p.Attributes) != width {
			return nil, fmt.Errorf("id3: point %d has %d attributes, dataset declares %d",
				i, len(p.Attributes), width)
		}
	}

	remaining := make([]int, width)
	for i := range remaining {
		remaining[i] = i
	}
	return &Tree{
		AttributeNames: ds.AttributeNames,
		Root:           build(ds.Points, remaining, ds.Points),
	}, nil
}

func build(examples []DataPoint, remaining []int, parent []DataPoint) *Node {
	if len(examples) == 0 {
		return &Node{Label: majorityLabel(parent)}
	}
	if label, uniform := uniformLabel(examples); uniform {
		return &Node{Label: label}
	}
	if len(remaining) == 0 || len(examples) < MinExamplesForSplit {
		return &Node{Label: majorityLabel(examples)}
	}

	best, bestGain := -1, 0.0
	for _, attr := range remaining {
		if g := InformationGain(examples, attr); best < 0 || g > bestGain {
			best, bestGain = attr, g
		}
	}
	if bestGain < MinGainThreshold {
		return &Node{Label: majorityLabel(examples)}
	}

	byValue := func(p DataPoint) string { return p.Attributes[best] }
	order := sequence.DistinctKeys(sequence.From(examples), byValue)
	groups := sequence.GroupBy(sequence.From(examples), byValue)

	next := make([]int, 0, len(remaining)-1)
	for _, attr := range remaining {
		if attr != best {
			next = append(next, attr)
		}
	}

	node := &Node{Attr: best, Order: order, Children: make(map[string]*Node, len(order))}
	for _, v := range order {
		node.Children[v] = build(groups[v], next, examples)
	}
	return node
}

// majorityLabel picks the most frequent label; ties go to the label seen
// first, keeping the builder deterministic.
func majorityLabel(examples []DataPoint) string {
	byLabel := func(p DataPoint) string { return p.Label }
	order := sequence.DistinctKeys(sequence.From(examples), byLabel)
	groups := sequence.GroupBy(sequence.From(examples), byLabel)

	bestLabel, bestCount := "", -1
	for _, label := range order {
		if c := len(groups[label]); c > bestCount {
			bestLabel, bestCount = label, c
		}
	}
	return bestLabel
}

func uniformLabel(examples []DataPoint) (string, bool) {
	first := examples[0].Label
	for _, p := range examples[1:] {
		if p.Label != first {
			return "", false
		}
	}
	return first, true
}
