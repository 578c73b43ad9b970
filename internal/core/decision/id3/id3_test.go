package id3

import (
	"math"
	"testing"
)

// weatherSet is a two-attribute table where temp predicts the label exactly
// and outlook carries no information at all.
func weatherSet() DataSet {
	ds := DataSet{AttributeNames: []string{"outlook", "temp"}}
	ds.Add("No", "sunny", "hot")
	ds.Add("Yes", "sunny", "cool")
	ds.Add("No", "rain", "hot")
	ds.Add("Yes", "rain", "cool")
	return ds
}

func TestEntropy(t *testing.T) {
	if got := Entropy(nil); got != 0 {
		t.Fatalf("entropy of empty set = %v, want 0", got)
	}
	uniform := []DataPoint{{Label: "A"}, {Label: "A"}, {Label: "A"}}
	if got := Entropy(uniform); got != 0 {
		t.Fatalf("entropy of uniform labels = %v, want 0", got)
	}
	even := []DataPoint{{Label: "A"}, {Label: "B"}}
	if got := Entropy(even); math.Abs(got-1) > 1e-12 {
		t.Fatalf("entropy of 50/50 split = %v, want 1 bit", got)
	}
	skewed := []DataPoint{{Label: "A"}, {Label: "A"}, {Label: "A"}, {Label: "B"}}
	want := 0.8112781244591328
	if got := Entropy(skewed); math.Abs(got-want) > 1e-12 {
		t.Fatalf("entropy of 3/1 split = %v, want %v", got, want)
	}
}

func TestInformationGain(t *testing.T) {
	ds := weatherSet()
	if got := InformationGain(ds.Points, 1); math.Abs(got-1) > 1e-12 {
		t.Fatalf("gain(temp) = %v, want 1", got)
	}
	if got := InformationGain(ds.Points, 0); math.Abs(got) > 1e-12 {
		t.Fatalf("gain(outlook) = %v, want 0", got)
	}
}

func TestLearnSplitsOnMostInformativeAttribute(t *testing.T) {
	tree, err := Learn(weatherSet())
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	root := tree.Root
	if root.IsLeaf() {
		t.Fatalf("root is a leaf %q, want a split", root.Label)
	}
	if root.Attr != 1 {
		t.Fatalf("root splits on attribute %d (%s), want temp",
			root.Attr, tree.AttributeNames[root.Attr])
	}
	if len(root.Order) != 2 || root.Order[0] != "hot" || root.Order[1] != "cool" {
		t.Fatalf("branch order = %v, want first-seen [hot cool]", root.Order)
	}
	for value, label := range map[string]string{"hot": "No", "cool": "Yes"} {
		child := root.Children[value]
		if child == nil || !child.IsLeaf() || child.Label != label {
			t.Fatalf("branch %q = %+v, want leaf %q", value, child, label)
		}
	}
}

func TestClassifyWeather(t *testing.T) {
	tree, err := Learn(weatherSet())
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if got := tree.Classify([]string{"sunny", "cool"}); got != "Yes" {
		t.Fatalf("classify [sunny cool] = %q, want Yes", got)
	}
	if got := tree.Classify([]string{"rain", "hot"}); got != "No" {
		t.Fatalf("classify [rain hot] = %q, want No", got)
	}
}

func TestClassifyUnseenValueFallsBackToFirstBranch(t *testing.T) {
	tree, err := Learn(weatherSet())
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	// "mild" never appeared in training, so classification follows the first
	// branch in training order, which is hot.
	if got := tree.Classify([]string{"sunny", "mild"}); got != "No" {
		t.Fatalf("classify unseen temp = %q, want the hot branch's No", got)
	}
	if got := tree.Classify([]string{"sunny"}); got != "No" {
		t.Fatalf("classify short vector = %q, want the fallback branch's No", got)
	}
}

func TestLearnRejectsBadInput(t *testing.T) {
	if _, err := Learn(DataSet{AttributeNames: []string{"a"}}); err == nil {
		t.Fatal("empty dataset did not fail")
	}
	ragged := DataSet{AttributeNames: []string{"a", "b"}}
	ragged.Add("X", "1", "2")
	ragged.Add("Y", "1")
	if _, err := Learn(ragged); err == nil {
		t.Fatal("ragged point did not fail")
	}
}

func TestSmallMixedNodeBecomesMajorityLeaf(t *testing.T) {
	// shape is constant so an attribute is still available below the color
	// split; the blue branch holds two mixed examples and must stop on the
	// example minimum, not on attribute exhaustion.
	ds := DataSet{AttributeNames: []string{"color", "shape"}}
	ds.Add("Go", "red", "square")
	ds.Add("Go", "red", "square")
	ds.Add("Stop", "red", "square")
	ds.Add("Stop", "blue", "square")
	ds.Add("Go", "blue", "square")
	tree, err := Learn(ds)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if tree.Root.IsLeaf() {
		t.Fatalf("root collapsed to leaf %q, want a split on color", tree.Root.Label)
	}
	if got := tree.Classify([]string{"red", "square"}); got != "Go" {
		t.Fatalf("classify red = %q, want majority Go", got)
	}
	if got := tree.Classify([]string{"blue", "square"}); got != "Stop" {
		t.Fatalf("classify blue = %q, want first-seen Stop", got)
	}
}

func TestLowGainCollapsesToMajorityLeaf(t *testing.T) {
	ds := DataSet{AttributeNames: []string{"noise"}}
	ds.Add("Go", "a")
	ds.Add("Stop", "a")
	ds.Add("Go", "b")
	ds.Add("Stop", "b")
	tree, err := Learn(ds)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if !tree.Root.IsLeaf() {
		t.Fatalf("zero-gain split was kept: %+v", tree.Root)
	}
	if tree.Root.Label != "Go" {
		t.Fatalf("majority of a tie = %q, want first-seen Go", tree.Root.Label)
	}
}

func TestMajorityTieGoesToFirstSeen(t *testing.T) {
	pts := []DataPoint{{Label: "B"}, {Label: "A"}, {Label: "A"}, {Label: "B"}}
	if got := majorityLabel(pts); got != "B" {
		t.Fatalf("majorityLabel = %q, want B", got)
	}
}

func TestGainTieSplitsOnFirstAttribute(t *testing.T) {
	ds := DataSet{AttributeNames: []string{"left", "right"}}
	ds.Add("A", "x", "x")
	ds.Add("A", "x", "x")
	ds.Add("B", "y", "y")
	ds.Add("B", "y", "y")
	tree, err := Learn(ds)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if tree.Root.IsLeaf() || tree.Root.Attr != 0 {
		t.Fatalf("root = %+v, want split on the first of two equal attributes", tree.Root)
	}
}

func TestLearnRecursesThroughMultipleSplits(t *testing.T) {
	// visible decides chase vs not; when not visible, idle_too_long decides
	// wander vs idle. Each second-level node keeps at least three examples.
	ds := DataSet{AttributeNames: []string{"visible", "idle_too_long"}}
	for i := 0; i < 3; i++ {
		ds.Add("PathfindToPlayer", "true", "false")
		ds.Add("PathfindToPlayer", "true", "true")
		ds.Add("Wander", "false", "true")
		ds.Add("Idle", "false", "false")
	}
	tree, err := Learn(ds)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if tree.Root.IsLeaf() || tree.Root.Attr != 0 {
		t.Fatalf("root = %+v, want split on visible", tree.Root)
	}
	if got := tree.Classify([]string{"true", "false"}); got != "PathfindToPlayer" {
		t.Fatalf("visible = %q, want PathfindToPlayer", got)
	}
	if got := tree.Classify([]string{"false", "true"}); got != "Wander" {
		t.Fatalf("hidden+idle = %q, want Wander", got)
	}
	if got := tree.Classify([]string{"false", "false"}); got != "Idle" {
		t.Fatalf("hidden+busy = %q, want Idle", got)
	}
}
