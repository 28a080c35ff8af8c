package tabula

import "fmt"

// An OrderedSeries is a Series whose sort specification can still be
// extended. The first OrderBy call is the highest sort priority; each
// later ThenBy call adds the next lower priority level. The chain is
// flattened into a single stable multi-key sort at traversal time, so
// full ties preserve the source's relative order.
type OrderedSeries struct {
	*Series
	src   *Series
	specs []sortSpec[Pair]
}

// An OrderedDataFrame is a DataFrame whose sort specification can still be
// extended. See OrderedSeries for the priority and stability rules.
type OrderedDataFrame struct {
	*DataFrame
	src   *DataFrame
	specs []sortSpec[Pair]
}

// OrderBy sorts the values ascending by selector. Subsequent ThenBy calls
// break ties at successively lower priorities.
func (s *Series) OrderBy(selector func(val any) any) *OrderedSeries {
	return s.orderBy(selector, false)
}

// OrderByDescending sorts the values descending by selector.
func (s *Series) OrderByDescending(selector func(val any) any) *OrderedSeries {
	return s.orderBy(selector, true)
}

func (s *Series) orderBy(selector func(val any) any, descending bool) *OrderedSeries {
	if selector == nil {
		return &OrderedSeries{Series: seriesWithError(fmt.Errorf("order by: selector cannot be nil"))}
	}
	return orderedSeries(s, []sortSpec[Pair]{seriesSpec(selector, descending)})
}

// ThenBy adds an ascending tie-breaking sort level below the existing ones.
func (o *OrderedSeries) ThenBy(selector func(val any) any) *OrderedSeries {
	return o.thenBy(selector, false)
}

// ThenByDescending adds a descending tie-breaking sort level below the
// existing ones.
func (o *OrderedSeries) ThenByDescending(selector func(val any) any) *OrderedSeries {
	return o.thenBy(selector, true)
}

func (o *OrderedSeries) thenBy(selector func(val any) any, descending bool) *OrderedSeries {
	if o.src == nil {
		return o
	}
	if selector == nil {
		return &OrderedSeries{Series: seriesWithError(fmt.Errorf("then by: selector cannot be nil"))}
	}
	specs := append(append([]sortSpec[Pair]{}, o.specs...), seriesSpec(selector, descending))
	return orderedSeries(o.src, specs)
}

func seriesSpec(selector func(val any) any, descending bool) sortSpec[Pair] {
	return sortSpec[Pair]{
		selector:   func(p Pair) any { return selector(p.Value) },
		descending: descending,
	}
}

func orderedSeries(src *Series, specs []sortSpec[Pair]) *OrderedSeries {
	sorted := src.forkPairs(func(c *content) seq[Pair] {
		return sortSeq(c.pairs, specs)
	})
	return &OrderedSeries{Series: sorted, src: src, specs: specs}
}

// OrderBy sorts the rows ascending by selector. Subsequent ThenBy calls
// break ties at successively lower priorities.
func (df *DataFrame) OrderBy(selector func(row Row) any) *OrderedDataFrame {
	return df.orderBy(selector, false)
}

// OrderByDescending sorts the rows descending by selector.
func (df *DataFrame) OrderByDescending(selector func(row Row) any) *OrderedDataFrame {
	return df.orderBy(selector, true)
}

func (df *DataFrame) orderBy(selector func(row Row) any, descending bool) *OrderedDataFrame {
	if selector == nil {
		return &OrderedDataFrame{DataFrame: dataFrameWithError(fmt.Errorf("order by: selector cannot be nil"))}
	}
	return orderedDataFrame(df, []sortSpec[Pair]{frameSpec(selector, descending)})
}

// ThenBy adds an ascending tie-breaking sort level below the existing ones.
func (o *OrderedDataFrame) ThenBy(selector func(row Row) any) *OrderedDataFrame {
	return o.thenBy(selector, false)
}

// ThenByDescending adds a descending tie-breaking sort level below the
// existing ones.
func (o *OrderedDataFrame) ThenByDescending(selector func(row Row) any) *OrderedDataFrame {
	return o.thenBy(selector, true)
}

func (o *OrderedDataFrame) thenBy(selector func(row Row) any, descending bool) *OrderedDataFrame {
	if o.src == nil {
		return o
	}
	if selector == nil {
		return &OrderedDataFrame{DataFrame: dataFrameWithError(fmt.Errorf("then by: selector cannot be nil"))}
	}
	specs := append(append([]sortSpec[Pair]{}, o.specs...), frameSpec(selector, descending))
	return orderedDataFrame(o.src, specs)
}

func frameSpec(selector func(row Row) any, descending bool) sortSpec[Pair] {
	return sortSpec[Pair]{
		selector:   func(p Pair) any { return selector(asRow(p.Value)) },
		descending: descending,
	}
}

func orderedDataFrame(src *DataFrame, specs []sortSpec[Pair]) *OrderedDataFrame {
	sorted := src.forkPairs(func(c *content) seq[Pair] {
		return sortSeq(c.pairs, specs)
	})
	return &OrderedDataFrame{DataFrame: sorted, src: src, specs: specs}
}
