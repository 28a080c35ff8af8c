package tabula

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olekukonko/tablewriter"
)

// -- CONSTRUCTORS

// NewSeries constructs a Series from a slice of values with a default
// 0-based index.
func NewSeries(values []any) *Series {
	return NewSeriesConfig(SeriesConfig{Values: values, Baked: true})
}

// NewSeriesConfig constructs a Series from a configuration record.
// Exactly one of Values or Pairs must be supplied; supplying both is an
// immediate error.
func NewSeriesConfig(cfg SeriesConfig) *Series {
	c, err := seriesContent(cfg)
	if err != nil {
		return seriesWithError(fmt.Errorf("constructing new Series: %v", err))
	}
	return &Series{content: readyContent(c)}
}

// NewLazySeries stores a zero-argument configuration producer that is
// invoked exactly once, on first access, and memoized.
func NewLazySeries(produce func() SeriesConfig) *Series {
	if produce == nil {
		return seriesWithError(fmt.Errorf("constructing new lazy Series: producer cannot be nil"))
	}
	return &Series{content: newLazyContent(func() *content {
		c, err := seriesContent(produce())
		if err != nil {
			return errContent(fmt.Errorf("constructing new Series: %v", err))
		}
		return c
	})}
}

func seriesContent(cfg SeriesConfig) (*content, error) {
	if cfg.Values != nil && cfg.Pairs != nil {
		return nil, fmt.Errorf("only one of Values or Pairs may be supplied")
	}
	var pairs []Pair
	switch {
	case cfg.Pairs != nil:
		pairs = cfg.Pairs
	case cfg.Values != nil:
		if cfg.Index != nil {
			pairs = zipIndexValues(cfg.Index, cfg.Values)
		} else {
			pairs = collect(defaultIndexPairs(seqOf(cfg.Values)))
		}
	}
	return finishContent(pairs, nil, cfg.Baked), nil
}

func (s *Series) getContent() *content {
	if s.err != nil {
		return errContent(s.err)
	}
	return s.content.get()
}

// fork derives a new lazy Series from this one's content record.
func (s *Series) fork(produce func(c *content) *content) *Series {
	if s.err != nil {
		return seriesWithError(s.err)
	}
	return &Series{content: newLazyContent(func() *content {
		c := s.getContent()
		if c.err != nil {
			return c
		}
		return produce(c)
	})}
}

// forkPairs derives a new lazy Series by transforming the pair sequence.
func (s *Series) forkPairs(transform func(c *content) seq[Pair]) *Series {
	return s.fork(func(c *content) *content {
		return contentFromPairs(transform(c), nil)
	})
}

// -- GETTERS

// Err returns the first error attached to the Series, if any.
// Errors raised during lazy materialization surface here after the first
// terminal access.
func (s *Series) Err() error {
	if s.err != nil {
		return s.err
	}
	if s.content != nil && s.content.memo != nil {
		return s.content.memo.err
	}
	return nil
}

func (s *Series) String() string {
	if s.err != nil {
		return fmt.Sprintf("Error: %v", s.err)
	}
	c := s.getContent()
	if c.err != nil {
		return fmt.Sprintf("Error: %v", c.err)
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"", "Values"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	truncated := false
	var n int
	c.pairs(func(p Pair) bool {
		if n == optionMaxRows {
			truncated = true
			return false
		}
		table.Append([]string{fmt.Sprint(p.Index), fmt.Sprint(p.Value)})
		n++
		return true
	})
	if truncated {
		table.Append([]string{"...", "..."})
	}
	table.Render()
	return buf.String()
}

// Index returns the Series' index.
func (s *Series) Index() *Index {
	return newIndex(s.getContent().index)
}

// ToArray materializes the Series values.
// Entries whose value is nil are silently omitted; use ForEach to observe
// every position.
func (s *Series) ToArray() []any {
	ret := []any{}
	s.getContent().values(func(v any) bool {
		if v != nil {
			ret = append(ret, v)
		}
		return true
	})
	return ret
}

// ToPairs materializes the (index, value) pairs, omitting entries whose
// value is nil.
func (s *Series) ToPairs() []Pair {
	ret := []Pair{}
	s.getContent().pairs(func(p Pair) bool {
		if p.Value != nil {
			ret = append(ret, p)
		}
		return true
	})
	return ret
}

// ForEach traverses every position, including nil values.
func (s *Series) ForEach(fn func(val any, index any)) {
	s.getContent().pairs(func(p Pair) bool {
		fn(p.Value, p.Index)
		return true
	})
}

// Count traverses the Series and returns the number of positions.
func (s *Series) Count() int {
	return seqCount(s.getContent().values)
}

// Any reports whether the Series has at least one position.
func (s *Series) Any() bool {
	return seqAny(s.getContent().values)
}

// First returns the first value, or an error if the Series is empty.
// Check Any() or Count() before calling on possibly-empty data.
func (s *Series) First() (any, error) {
	first, ok := seqFirst(s.getContent().values)
	if !ok {
		return nil, fmt.Errorf("first: Series is empty")
	}
	return first, nil
}

// Last returns the final value, or an error if the Series is empty.
func (s *Series) Last() (any, error) {
	last, ok := seqLast(s.getContent().values)
	if !ok {
		return nil, fmt.Errorf("last: Series is empty")
	}
	return last, nil
}

// At returns the value whose index key matches indexValue, or nil if no
// key matches. Keys are matched in the stringified key space.
func (s *Series) At(indexValue any) any {
	want := keyString(indexValue)
	var ret any
	s.getContent().pairs(func(p Pair) bool {
		if keyString(p.Index) == want {
			ret = p.Value
			return false
		}
		return true
	})
	return ret
}

// -- TRANSFORMS

// Select transforms every value. Returns a new lazy Series sharing this
// one's index.
func (s *Series) Select(fn func(val any) any) *Series {
	if fn == nil {
		return seriesWithError(fmt.Errorf("select: fn cannot be nil"))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		return mapSeq(c.pairs, func(p Pair, _ int) Pair {
			return Pair{Index: p.Index, Value: fn(p.Value)}
		})
	})
}

// Where filters to the values satisfying pred. Returns a new lazy Series.
func (s *Series) Where(pred func(val any) bool) *Series {
	if pred == nil {
		return seriesWithError(fmt.Errorf("where: predicate cannot be nil"))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		return filterSeq(c.pairs, func(p Pair, _ int) bool {
			return pred(p.Value)
		})
	})
}

// Take keeps the first n positions. n <= 0 yields an empty Series.
func (s *Series) Take(n int) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return takeSeq(c.pairs, n)
	})
}

// TakeWhile keeps positions until pred first returns false.
func (s *Series) TakeWhile(pred func(val any) bool) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return takeWhileSeq(c.pairs, func(p Pair) bool { return pred(p.Value) })
	})
}

// TakeUntil keeps positions until pred first returns true.
func (s *Series) TakeUntil(pred func(val any) bool) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return takeUntilSeq(c.pairs, func(p Pair) bool { return pred(p.Value) })
	})
}

// Skip drops the first n positions. n <= 0 leaves the Series unchanged.
func (s *Series) Skip(n int) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return skipSeq(c.pairs, n)
	})
}

// SkipWhile drops positions until pred first returns false.
func (s *Series) SkipWhile(pred func(val any) bool) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return skipWhileSeq(c.pairs, func(p Pair) bool { return pred(p.Value) })
	})
}

// SkipUntil drops positions until pred first returns true.
func (s *Series) SkipUntil(pred func(val any) bool) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return skipUntilSeq(c.pairs, func(p Pair) bool { return pred(p.Value) })
	})
}

// Head keeps the first n positions.
func (s *Series) Head(n int) *Series {
	return s.Take(n)
}

// Tail keeps the final n positions. Traversal buffers at most n values.
func (s *Series) Tail(n int) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return tailSeq(c.pairs, n)
	})
}

// Reverse reverses the Series. Traversal buffers the entire input.
func (s *Series) Reverse() *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return reverseSeq(c.pairs)
	})
}

// Concat appends the other Series after this one, preserving input order
// with no deduplication.
func (s *Series) Concat(others ...*Series) *Series {
	for _, other := range others {
		if other == nil {
			return seriesWithError(fmt.Errorf("concat: other Series cannot be nil"))
		}
		if other.err != nil {
			return seriesWithError(fmt.Errorf("concat: %v", other.err))
		}
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		seqs := make([]seq[Pair], 0, len(others)+1)
		seqs = append(seqs, c.pairs)
		for _, other := range others {
			seqs = append(seqs, other.getContent().pairs)
		}
		return concatSeq(seqs...)
	})
}

// Zip combines this Series with other positionally, stopping at the
// shorter input. The result keeps this Series' index.
func (s *Series) Zip(other *Series, zipper func(a, b any) any) *Series {
	if zipper == nil {
		return seriesWithError(fmt.Errorf("zip: zipper cannot be nil"))
	}
	if other == nil {
		return seriesWithError(fmt.Errorf("zip: other Series cannot be nil"))
	}
	if other.err != nil {
		return seriesWithError(fmt.Errorf("zip: %v", other.err))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		zipped := zipSeq([]seq[Pair]{c.pairs, other.getContent().pairs})
		return mapSeq(zipped, func(pair []Pair, _ int) Pair {
			return Pair{Index: pair[0].Index, Value: zipper(pair[0].Value, pair[1].Value)}
		})
	})
}

// Distinct keeps the first occurrence of each value, in first-seen order.
// Value identity is stringified, so values that stringify identically
// (e.g., 1 and "1") collide.
func (s *Series) Distinct() *Series {
	return s.DistinctBy(nil)
}

// DistinctBy keeps the first occurrence of each selector output, in
// first-seen order. A nil selector uses the value itself.
func (s *Series) DistinctBy(selector func(val any) any) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return distinctSeq(c.pairs, func(p Pair) string {
			if selector == nil {
				return keyString(p.Value)
			}
			return keyString(selector(p.Value))
		})
	})
}

// SequentialDistinct collapses each run of adjacent values with equal
// selector output down to the last value of the run. A nil selector uses
// the value itself.
func (s *Series) SequentialDistinct(selector func(val any) any) *Series {
	key := func(p Pair) string {
		if selector == nil {
			return keyString(p.Value)
		}
		return keyString(selector(p.Value))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		runs := variableSeq(c.pairs, func(prev, curr Pair) bool {
			return key(prev) == key(curr)
		})
		return mapSeq(runs, func(run []Pair, _ int) Pair {
			return run[len(run)-1]
		})
	})
}

// WithIndex replaces the index, pairing positionally and stopping at the
// shorter of index and values.
func (s *Series) WithIndex(index []any) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		zipped := zipSeq([]seq[any]{seqOf(index), c.values})
		return mapSeq(zipped, func(pair []any, _ int) Pair {
			return Pair{Index: pair[0], Value: pair[1]}
		})
	})
}

// ResetIndex replaces the index with a fresh 0-based sequence.
func (s *Series) ResetIndex() *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		return resetIndexPairs(c.pairs)
	})
}

// Bake materializes the values and pairs into concrete storage, so that
// repeat traversals no longer re-execute the upstream chain.
// Baking an already-baked Series is a no-op.
func (s *Series) Bake() *Series {
	if s.err != nil {
		return seriesWithError(s.err)
	}
	c := s.getContent()
	if c.err != nil {
		return seriesWithError(c.err)
	}
	if c.baked {
		return s
	}
	return &Series{content: readyContent(bakeContent(c))}
}

// -- WINDOWS

// Window splits the Series into non-overlapping chunks of size period,
// including the final partial chunk. Each window is a baked Series; the
// result is indexed by window number.
func (s *Series) Window(period int) *Series {
	if period <= 0 {
		return seriesWithError(fmt.Errorf("window: period must be at least 1, not %d", period))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		return pairChunks(windowSeq(c.pairs, period))
	})
}

// RollingWindow yields one window per offset; only full-size windows are
// emitted, so a Series of length l yields l-period+1 windows.
func (s *Series) RollingWindow(period int) *Series {
	if period <= 0 {
		return seriesWithError(fmt.Errorf("rolling window: period must be at least 1, not %d", period))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		return pairChunks(rollingSeq(c.pairs, period))
	})
}

// VariableWindow starts a new window whenever comparer(prev, curr) is
// false; comparer sees adjacent values only.
func (s *Series) VariableWindow(comparer func(prev, curr any) bool) *Series {
	if comparer == nil {
		return seriesWithError(fmt.Errorf("variable window: comparer cannot be nil"))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		chunks := variableSeq(c.pairs, func(prev, curr Pair) bool {
			return comparer(prev.Value, curr.Value)
		})
		return pairChunks(chunks)
	})
}

// pairChunks wraps each chunk of pairs as a baked sub-Series, indexed by
// chunk number.
func pairChunks(chunks seq[[]Pair]) seq[Pair] {
	return mapSeq(chunks, func(chunk []Pair, i int) Pair {
		sub := &Series{content: readyContent(contentFromPairSlice(chunk, nil))}
		return Pair{Index: i, Value: sub}
	})
}

// -- GROUPERS

// GroupBy groups values that share the same stringified selector output.
// The result is a Series of baked group Series, indexed by group key, in
// first-appearance order. Distinct selector outputs that stringify
// identically collide.
func (s *Series) GroupBy(selector func(val any) any) *Series {
	if selector == nil {
		return seriesWithError(fmt.Errorf("group by: selector cannot be nil"))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		keys, groups := groupPairs(c.pairs, func(p Pair) any { return selector(p.Value) })
		ret := make([]Pair, len(keys))
		for i := range keys {
			sub := &Series{content: readyContent(contentFromPairSlice(groups[i], nil))}
			ret[i] = Pair{Index: keys[i], Value: sub}
		}
		return seqOf(ret)
	})
}

// GroupSequentialBy groups runs of adjacent values with equal stringified
// selector output, indexed by each run's key.
func (s *Series) GroupSequentialBy(selector func(val any) any) *Series {
	if selector == nil {
		return seriesWithError(fmt.Errorf("group sequential by: selector cannot be nil"))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		runs := variableSeq(c.pairs, func(prev, curr Pair) bool {
			return keyString(selector(prev.Value)) == keyString(selector(curr.Value))
		})
		return mapSeq(runs, func(run []Pair, _ int) Pair {
			sub := &Series{content: readyContent(contentFromPairSlice(run, nil))}
			return Pair{Index: selector(run[0].Value), Value: sub}
		})
	})
}

// groupPairs makes a single pass, collecting insertion-ordered groups keyed
// in the stringified key space.
func groupPairs(pairs seq[Pair], selector func(Pair) any) ([]any, [][]Pair) {
	var keys []any
	var groups [][]Pair
	position := make(map[string]int)
	pairs(func(p Pair) bool {
		key := selector(p)
		ks := keyString(key)
		at, ok := position[ks]
		if !ok {
			at = len(keys)
			position[ks] = at
			keys = append(keys, key)
			groups = append(groups, nil)
		}
		groups[at] = append(groups[at], p)
		return true
	})
	return keys, groups
}

// -- SET ALGEBRA

// Union concatenates other onto this Series and removes duplicate values,
// first occurrence winning in concatenation order.
func (s *Series) Union(other *Series) *Series {
	return s.Concat(other).Distinct()
}

// Intersection keeps the values that also appear in other, matching in the
// stringified key space.
func (s *Series) Intersection(other *Series) *Series {
	if other == nil {
		return seriesWithError(fmt.Errorf("intersection: other Series cannot be nil"))
	}
	if other.err != nil {
		return seriesWithError(fmt.Errorf("intersection: %v", other.err))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		return filterSeq(c.pairs, func(p Pair, _ int) bool {
			return seriesHasValue(other, keyString(p.Value))
		})
	})
}

// Except keeps the values that do not appear in other, matching in the
// stringified key space.
func (s *Series) Except(other *Series) *Series {
	if other == nil {
		return seriesWithError(fmt.Errorf("except: other Series cannot be nil"))
	}
	if other.err != nil {
		return seriesWithError(fmt.Errorf("except: %v", other.err))
	}
	return s.forkPairs(func(c *content) seq[Pair] {
		return filterSeq(c.pairs, func(p Pair, _ int) bool {
			return !seriesHasValue(other, keyString(p.Value))
		})
	})
}

func seriesHasValue(s *Series, want string) bool {
	var found bool
	s.getContent().values(func(v any) bool {
		if keyString(v) == want {
			found = true
			return false
		}
		return true
	})
	return found
}

// -- RANGE QUERIES
// All range operators assume the index is sorted ascending under the
// detected key type's ordering.

// StartAt keeps the positions at or after indexValue.
func (s *Series) StartAt(indexValue any) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		ix := newIndex(c.index)
		return skipWhileSeq(c.pairs, func(p Pair) bool { return ix.LessThan(p.Index, indexValue) })
	})
}

// EndAt keeps the positions at or before indexValue.
func (s *Series) EndAt(indexValue any) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		ix := newIndex(c.index)
		return takeWhileSeq(c.pairs, func(p Pair) bool { return ix.LessThanOrEqualTo(p.Index, indexValue) })
	})
}

// Before keeps the positions strictly before indexValue.
func (s *Series) Before(indexValue any) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		ix := newIndex(c.index)
		return takeWhileSeq(c.pairs, func(p Pair) bool { return ix.LessThan(p.Index, indexValue) })
	})
}

// After keeps the positions strictly after indexValue.
func (s *Series) After(indexValue any) *Series {
	return s.forkPairs(func(c *content) seq[Pair] {
		ix := newIndex(c.index)
		return skipWhileSeq(c.pairs, func(p Pair) bool { return ix.LessThanOrEqualTo(p.Index, indexValue) })
	})
}

// Between keeps the positions from startIndexValue through endIndexValue
// inclusive.
func (s *Series) Between(startIndexValue, endIndexValue any) *Series {
	return s.StartAt(startIndexValue).EndAt(endIndexValue)
}

// -- AGGREGATION

// Aggregate folds the values left to right from seed.
func (s *Series) Aggregate(seed any, agg func(acc, val any) any) any {
	if agg == nil {
		return nil
	}
	acc := seed
	s.getContent().values(func(v any) bool {
		acc = agg(acc, v)
		return true
	})
	return acc
}

// Sum coerces the values to float64 and sums them. Values that cannot be
// coerced are skipped.
func (s *Series) Sum() float64 {
	return sum(floatValues(s.getContent().values))
}

// Mean coerces the values to float64 and calculates the mean.
func (s *Series) Mean() float64 {
	return mean(floatValues(s.getContent().values))
}

// Median coerces the values to float64 and calculates the median.
func (s *Series) Median() float64 {
	return median(floatValues(s.getContent().values))
}

// Std coerces the values to float64 and calculates the population standard
// deviation.
func (s *Series) Std() float64 {
	return std(floatValues(s.getContent().values))
}

// Min coerces the values to float64 and calculates the minimum.
func (s *Series) Min() float64 {
	return minimum(floatValues(s.getContent().values))
}

// Max coerces the values to float64 and calculates the maximum.
func (s *Series) Max() float64 {
	return maximum(floatValues(s.getContent().values))
}

// -- PARSERS

// ParseInts parses the values as integers. Values that cannot be parsed
// become nil.
func (s *Series) ParseInts() *Series {
	return s.Select(func(v any) any {
		switch val := v.(type) {
		case nil:
			return nil
		case string:
			parsed, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil
			}
			return parsed
		default:
			if f, ok := numericValue(v); ok {
				return int64(f)
			}
			return nil
		}
	})
}

// ParseFloats parses the values as float64. Values that cannot be parsed
// become nil.
func (s *Series) ParseFloats() *Series {
	return s.Select(func(v any) any {
		if v == nil {
			return nil
		}
		if f, ok := toFloat(v); ok {
			return f
		}
		return nil
	})
}

// ParseDates parses the values as timestamps, accepting any layout that
// dateparse recognizes. Values that cannot be parsed become nil.
func (s *Series) ParseDates() *Series {
	return s.Select(func(v any) any {
		switch val := v.(type) {
		case nil:
			return nil
		case time.Time:
			return val
		case string:
			t, err := dateparse.ParseAny(val)
			if err != nil {
				return nil
			}
			return t
		}
		return nil
	})
}

// ToStrings formats the values as strings. For time values, format is a Go
// time layout; for numbers, a non-empty format is a Sprintf verb; nil
// values stay nil.
func (s *Series) ToStrings(format string) *Series {
	return s.Select(func(v any) any {
		switch val := v.(type) {
		case nil:
			return nil
		case string:
			return val
		case time.Time:
			if format != "" {
				return val.Format(format)
			}
			return val.Format(time.RFC3339)
		}
		if format != "" {
			if _, ok := numericValue(v); ok {
				return fmt.Sprintf(format, v)
			}
		}
		return fmt.Sprint(v)
	})
}

// -- REPORTING

// DetectTypes makes one pass over the values and reports the frequency of
// each runtime type tag as a DataFrame with Type and Frequency columns,
// ties broken by first-occurrence order.
func (s *Series) DetectTypes() *DataFrame {
	keys, counts := frequencies(s.getContent().values, typeTag)
	rows := make([]Row, len(keys))
	for i, key := range keys {
		rows[i] = Row{"Type": key, "Frequency": counts[i]}
	}
	return NewDataFrameConfig(DataFrameConfig{Values: rows, ColumnNames: []string{"Type", "Frequency"}})
}

// DetectValues makes one pass over the values and reports the frequency of
// each exact value as a DataFrame with Value and Frequency columns, ties
// broken by first-occurrence order.
func (s *Series) DetectValues() *DataFrame {
	var order []any
	position := make(map[string]int)
	var counts []int
	s.getContent().values(func(v any) bool {
		ks := keyString(v)
		at, ok := position[ks]
		if !ok {
			at = len(order)
			position[ks] = at
			order = append(order, v)
			counts = append(counts, 0)
		}
		counts[at]++
		return true
	})
	rows := make([]Row, len(order))
	for i, v := range order {
		rows[i] = Row{"Value": v, "Frequency": counts[i]}
	}
	return NewDataFrameConfig(DataFrameConfig{Values: rows, ColumnNames: []string{"Value", "Frequency"}})
}

// frequencies counts stringified key occurrences in first-seen order.
func frequencies(values seq[any], key func(any) string) ([]string, []int) {
	var order []string
	position := make(map[string]int)
	var counts []int
	values(func(v any) bool {
		k := key(v)
		at, ok := position[k]
		if !ok {
			at = len(order)
			position[k] = at
			order = append(order, k)
			counts = append(counts, 0)
		}
		counts[at]++
		return true
	})
	return order, counts
}
