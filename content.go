package tabula

import "sync"

// content is the record backing every Series and DataFrame instance:
// an index sequence, a value sequence positionally congruent with it,
// their zip as pairs, the ordered column names (DataFrame only), and
// whether the sequences are backed by concrete materialized storage.
type content struct {
	index       seq[any]
	values      seq[any]
	pairs       seq[Pair]
	columnNames []string
	baked       bool
	err         error
}

// lazyContent defers construction of a content record until first access
// and memoizes the result exactly once. Re-access reuses the cached record;
// re-traversal of its sequences may still recompute unless baked.
type lazyContent struct {
	once    sync.Once
	produce func() *content
	memo    *content
}

func newLazyContent(produce func() *content) *lazyContent {
	return &lazyContent{produce: produce}
}

func readyContent(c *content) *lazyContent {
	return &lazyContent{memo: c}
}

func (lc *lazyContent) get() *content {
	lc.once.Do(func() {
		if lc.produce != nil {
			lc.memo = lc.produce()
			lc.produce = nil
		}
	})
	return lc.memo
}

func errContent(err error) *content {
	return &content{
		index:  emptySeq[any](),
		values: emptySeq[any](),
		pairs:  emptySeq[Pair](),
		err:    err,
	}
}

// contentFromPairs derives index and values by projecting the pair sequence.
func contentFromPairs(pairs seq[Pair], columnNames []string) *content {
	return &content{
		index:       mapSeq(pairs, func(p Pair, _ int) any { return p.Index }),
		values:      mapSeq(pairs, func(p Pair, _ int) any { return p.Value }),
		pairs:       pairs,
		columnNames: columnNames,
	}
}

// finishContent wraps a concrete pair slice built by a constructor. When
// baked is true the storage is trusted and repeat traversals reuse it
// directly; otherwise the record stays unbaked and Bake produces a fresh
// instance.
func finishContent(pairs []Pair, columnNames []string, baked bool) *content {
	if baked {
		return contentFromPairSlice(pairs, columnNames)
	}
	return contentFromPairs(seqOf(pairs), columnNames)
}

// zipIndexValues pairs each value with its index key, falling back to the
// position when the index is shorter than the values.
func zipIndexValues(index []any, values []any) []Pair {
	pairs := make([]Pair, len(values))
	for i := range values {
		var key any = i
		if i < len(index) {
			key = index[i]
		}
		pairs[i] = Pair{Index: key, Value: values[i]}
	}
	return pairs
}

func contentFromPairSlice(pairs []Pair, columnNames []string) *content {
	index := make([]any, len(pairs))
	values := make([]any, len(pairs))
	for i, p := range pairs {
		index[i] = p.Index
		values[i] = p.Value
	}
	return &content{
		index:       seqOf(index),
		values:      seqOf(values),
		pairs:       seqOf(pairs),
		columnNames: columnNames,
		baked:       true,
	}
}

// bakeContent materializes the pair sequence once. Baking an already-baked
// content is a no-op.
func bakeContent(c *content) *content {
	if c.baked || c.err != nil {
		return c
	}
	return contentFromPairSlice(collect(c.pairs), c.columnNames)
}

// defaultIndexPairs zips values with a fresh 0-based index.
func defaultIndexPairs(values seq[any]) seq[Pair] {
	return mapSeq(values, func(v any, i int) Pair {
		return Pair{Index: i, Value: v}
	})
}

// resetIndexPairs replaces the pair indexes with a fresh 0-based sequence.
func resetIndexPairs(pairs seq[Pair]) seq[Pair] {
	return mapSeq(pairs, func(p Pair, i int) Pair {
		return Pair{Index: i, Value: p.Value}
	})
}
