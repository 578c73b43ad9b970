package id3

import "strconv"

// Bucket is one discretization step: numeric values strictly below Limit take
// Name. Buckets are checked in order, so limits must ascend.
type Bucket struct {
	Name  string
	Limit float64
}

// ColumnPolicy discretizes one column: ordered buckets plus the name used
// once every limit is exceeded. Non-numeric values pass through unchanged, so
// a column that is already categorical is unaffected.
type ColumnPolicy struct {
	Buckets  []Bucket
	Overflow string
}

// Apply maps one raw value onto its bucket.
func (p ColumnPolicy) Apply(raw string) string {
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	for _, b := range p.Buckets {
		if x < b.Limit {
			return b.Name
		}
	}
	return p.Overflow
}

// Discretizer applies per-column policies by attribute name. The same
// discretizer used at training time must be used at classification time, or
// the tree's split values will not line up with the inputs.
type Discretizer struct {
	columns map[string]ColumnPolicy
}

// NewDiscretizer returns an empty discretizer; columns without a policy pass
// values through unchanged.
func NewDiscretizer() *Discretizer {
	return &Discretizer{columns: make(map[string]ColumnPolicy)}
}

// SetColumn installs a policy for one column; returns the receiver for
// chaining.
func (d *Discretizer) SetColumn(name string, policy ColumnPolicy) *Discretizer {
	d.columns[name] = policy
	return d
}

// Apply discretizes one value of the named column.
func (d *Discretizer) Apply(column, raw string) string {
	p, ok := d.columns[column]
	if !ok {
		return raw
	}
	return p.Apply(raw)
}

// DistanceBuckets is the stock policy for distance-valued columns. The
// boundaries travel with any model trained through it and must be reused at
// inference.
func DistanceBuckets() ColumnPolicy {
	return ColumnPolicy{
		Buckets: []Bucket{
			{Name: "very_near", Limit: 30},
			{Name: "near", Limit: 80},
			{Name: "medium", Limit: 200},
		},
		Overflow: "far",
	}
}
