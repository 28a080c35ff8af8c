// Package tabula is an in-memory, lazily-evaluated, indexed data engine.
//
// tabula combines concepts from LINQ and pandas.
// Its two primitives are a Series (a single indexed column of values) and
// a DataFrame (multiple indexed columns of row records).
// Both expose the same chainable operator algebra: map, filter, take/skip,
// sort, window, group, join, pivot, and set algebra.
//
// Every operator returns a new instance wrapping a lazy content record;
// nothing is computed until a terminal accessor (ToArray, Count, ForEach,
// First, ...) pulls values through the chain. The same instance may be
// traversed repeatedly; each traversal re-executes the upstream chain
// unless the instance has been baked with Bake(), which materializes the
// content into concrete storage once.
//
// Indexes align rows by value, not by position: WithSeries matches an
// incoming series onto the current frame through its index values, and
// the range operators (StartAt, EndAt, Before, After, Between) run range
// queries against an ascending-sorted index.
//
// Printing either data type renders an ASCII table.
package tabula

// A Row is one record of a DataFrame, keyed by column name.
// A Row may carry keys beyond the frame's column names; extra keys are
// tolerated and ignored by column-ordered outputs such as ToRows.
type Row map[string]any

// A Pair couples an index value with the row or value at that position.
type Pair struct {
	Index any
	Value any
}

// A Series is a single column of values aligned with an index.
type Series struct {
	content *lazyContent
	err     error
}

// A DataFrame is one or more named columns of row records aligned with an index.
type DataFrame struct {
	content *lazyContent
	err     error
}

// SeriesConfig configures a new Series.
// Exactly one of Values or Pairs must be supplied.
// If Index is nil, a default index is used ([]int incrementing from 0).
// If Baked is true, the supplied storage is trusted to be concrete and
// repeat traversals are O(1).
type SeriesConfig struct {
	Values []any
	Pairs  []Pair
	Index  []any
	Baked  bool
}

// DataFrameConfig configures a new DataFrame.
// Exactly one of Values, Rows, Pairs, or Columns must be supplied.
// Rows is row-major data and requires ColumnNames; Columns is column-major
// data and transposes to the same row representation.
// If ColumnNames is nil, column names are inferred from the first row
// (or from all rows if ConsiderAllRows is true) and sorted for determinism.
// If Index is nil, a default index is used ([]int incrementing from 0).
// If Baked is true, the supplied storage is trusted to be concrete and
// repeat traversals are O(1).
type DataFrameConfig struct {
	Values          []Row
	Rows            [][]any
	Pairs           []Pair
	Columns         map[string][]any
	ColumnNames     []string
	Index           []any
	Baked           bool
	ConsiderAllRows bool
}

// KeyKind is the detected type of an Index's keys, which selects the
// ordering predicate used by range queries.
type KeyKind int

const (
	// KeyOther compares keys by their stringified form.
	KeyOther KeyKind = iota
	// KeyNumber compares keys numerically.
	KeyNumber
	// KeyString compares keys lexicographically.
	KeyString
	// KeyTime compares keys chronologically.
	KeyTime
)

func (k KeyKind) String() string {
	switch k {
	case KeyNumber:
		return "number"
	case KeyString:
		return "string"
	case KeyTime:
		return "time"
	}
	return "other"
}
