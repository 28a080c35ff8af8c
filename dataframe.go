package tabula

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
)

// -- CONSTRUCTORS

// NewDataFrame constructs a DataFrame from a slice of rows, with column
// names inferred from the first row's keys (sorted for determinism) and a
// default 0-based index.
func NewDataFrame(rows []Row) *DataFrame {
	return NewDataFrameConfig(DataFrameConfig{Values: rows, Baked: true})
}

// NewDataFrameConfig constructs a DataFrame from a configuration record.
// Exactly one of Values, Rows, Pairs, or Columns must be supplied, which
// is validated immediately.
func NewDataFrameConfig(cfg DataFrameConfig) *DataFrame {
	c, err := dataFrameContent(cfg)
	if err != nil {
		return dataFrameWithError(fmt.Errorf("constructing new DataFrame: %v", err))
	}
	return &DataFrame{content: readyContent(c)}
}

// NewLazyDataFrame stores a zero-argument configuration producer that is
// invoked exactly once, on first access, and memoized.
func NewLazyDataFrame(produce func() DataFrameConfig) *DataFrame {
	if produce == nil {
		return dataFrameWithError(fmt.Errorf("constructing new lazy DataFrame: producer cannot be nil"))
	}
	return &DataFrame{content: newLazyContent(func() *content {
		c, err := dataFrameContent(produce())
		if err != nil {
			return errContent(fmt.Errorf("constructing new DataFrame: %v", err))
		}
		return c
	})}
}

func dataFrameContent(cfg DataFrameConfig) (*content, error) {
	var supplied int
	for _, set := range []bool{cfg.Values != nil, cfg.Rows != nil, cfg.Pairs != nil, cfg.Columns != nil} {
		if set {
			supplied++
		}
	}
	if supplied != 1 {
		return nil, fmt.Errorf("exactly one of Values, Rows, Pairs, or Columns must be supplied (%d supplied)", supplied)
	}

	var rows []Row
	var index []any
	columnNames := cfg.ColumnNames

	switch {
	case cfg.Rows != nil:
		if columnNames == nil {
			return nil, fmt.Errorf("Rows requires ColumnNames")
		}
		columnNames = dedupeColumnNames(columnNames)
		rows = make([]Row, len(cfg.Rows))
		for i, rowVals := range cfg.Rows {
			row := make(Row, len(columnNames))
			for j, name := range columnNames {
				if j < len(rowVals) {
					row[name] = rowVals[j]
				}
			}
			rows[i] = row
		}
	case cfg.Columns != nil:
		if columnNames == nil {
			for name := range cfg.Columns {
				columnNames = append(columnNames, name)
			}
			sort.Strings(columnNames)
		}
		columnNames = dedupeColumnNames(columnNames)
		var length int
		for _, col := range cfg.Columns {
			if len(col) > length {
				length = len(col)
			}
		}
		rows = make([]Row, length)
		for i := range rows {
			row := make(Row, len(columnNames))
			for _, name := range columnNames {
				if col, ok := cfg.Columns[name]; ok && i < len(col) {
					row[name] = col[i]
				}
			}
			rows[i] = row
		}
	case cfg.Pairs != nil:
		if columnNames == nil {
			rowSeq := mapSeq(seqOf(cfg.Pairs), func(p Pair, _ int) Row { return asRow(p.Value) })
			columnNames = inferColumnNames(rowSeq, cfg.ConsiderAllRows)
		}
		columnNames = dedupeColumnNames(columnNames)
		return finishContent(cfg.Pairs, columnNames, cfg.Baked), nil
	default:
		rows = cfg.Values
		if columnNames == nil {
			columnNames = inferColumnNames(seqOf(rows), cfg.ConsiderAllRows)
		}
		columnNames = dedupeColumnNames(columnNames)
	}

	index = cfg.Index
	values := make([]any, len(rows))
	for i, row := range rows {
		values[i] = row
	}
	var pairs []Pair
	if index != nil {
		pairs = zipIndexValues(index, values)
	} else {
		pairs = collect(defaultIndexPairs(seqOf(values)))
	}
	return finishContent(pairs, columnNames, cfg.Baked), nil
}

func (df *DataFrame) getContent() *content {
	if df.err != nil {
		return errContent(df.err)
	}
	return df.content.get()
}

// fork derives a new lazy DataFrame from this one's content record.
func (df *DataFrame) fork(produce func(c *content) *content) *DataFrame {
	if df.err != nil {
		return dataFrameWithError(df.err)
	}
	return &DataFrame{content: newLazyContent(func() *content {
		c := df.getContent()
		if c.err != nil {
			return c
		}
		return produce(c)
	})}
}

// forkPairs derives a new lazy DataFrame by transforming the pair sequence,
// keeping the current column names.
func (df *DataFrame) forkPairs(transform func(c *content) seq[Pair]) *DataFrame {
	return df.fork(func(c *content) *content {
		return contentFromPairs(transform(c), c.columnNames)
	})
}

// -- GETTERS

// Err returns the first error attached to the DataFrame, if any.
// Errors raised during lazy materialization surface here after the first
// terminal access.
func (df *DataFrame) Err() error {
	if df.err != nil {
		return df.err
	}
	if df.content != nil && df.content.memo != nil {
		return df.content.memo.err
	}
	return nil
}

func (df *DataFrame) String() string {
	if df.err != nil {
		return fmt.Sprintf("Error: %v", df.err)
	}
	c := df.getContent()
	if c.err != nil {
		return fmt.Sprintf("Error: %v", c.err)
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(append([]string{""}, c.columnNames...))
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	truncated := false
	var n int
	c.pairs(func(p Pair) bool {
		if n == optionMaxRows {
			truncated = true
			return false
		}
		cells := make([]string, len(c.columnNames)+1)
		cells[0] = fmt.Sprint(p.Index)
		for j, v := range rowValues(asRow(p.Value), c.columnNames) {
			if v != nil {
				cells[j+1] = fmt.Sprint(v)
			}
		}
		table.Append(cells)
		n++
		return true
	})
	if truncated {
		filler := make([]string, len(c.columnNames)+1)
		for i := range filler {
			filler[i] = "..."
		}
		table.Append(filler)
	}
	table.Render()
	return buf.String()
}

// Index returns the DataFrame's index.
func (df *DataFrame) Index() *Index {
	return newIndex(df.getContent().index)
}

// GetColumnNames returns the ordered column names.
func (df *DataFrame) GetColumnNames() []string {
	c := df.getContent()
	ret := make([]string, len(c.columnNames))
	copy(ret, c.columnNames)
	return ret
}

// HasSeries reports whether a column with the given name exists.
// Names match case-insensitively, mirroring the uniqueness rule applied at
// construction.
func (df *DataFrame) HasSeries(name string) bool {
	_, ok := findColumnName(name, df.getContent().columnNames)
	return ok
}

// GetSeries returns the named column as a Series sharing this DataFrame's
// index. A missing column never fails: it yields a Series of nil values.
func (df *DataFrame) GetSeries(name string) *Series {
	if df.err != nil {
		return seriesWithError(df.err)
	}
	return &Series{content: newLazyContent(func() *content {
		c := df.getContent()
		if c.err != nil {
			return c
		}
		col := name
		if canonical, ok := findColumnName(name, c.columnNames); ok {
			col = canonical
		}
		return contentFromPairs(mapSeq(c.pairs, func(p Pair, _ int) Pair {
			return Pair{Index: p.Index, Value: asRow(p.Value)[col]}
		}), nil)
	})}
}

// ExpectSeries returns the named column, or an error naming the column if
// it does not exist.
func (df *DataFrame) ExpectSeries(name string) (*Series, error) {
	if df.err != nil {
		return nil, df.err
	}
	if !df.HasSeries(name) {
		return nil, fmt.Errorf("expect series: column %q not found (have %v)", name, df.getContent().columnNames)
	}
	return df.GetSeries(name), nil
}

// ToArray materializes the rows. Entries whose row is nil are silently
// omitted; use ForEach to observe every position.
func (df *DataFrame) ToArray() []Row {
	ret := []Row{}
	df.getContent().values(func(v any) bool {
		if v != nil {
			ret = append(ret, asRow(v))
		}
		return true
	})
	return ret
}

// ToPairs materializes the (index, row) pairs, omitting entries whose row
// is nil.
func (df *DataFrame) ToPairs() []Pair {
	ret := []Pair{}
	df.getContent().pairs(func(p Pair) bool {
		if p.Value != nil {
			ret = append(ret, p)
		}
		return true
	})
	return ret
}

// ToRows materializes the rows as arrays of values in column order.
func (df *DataFrame) ToRows() [][]any {
	c := df.getContent()
	ret := [][]any{}
	c.values(func(v any) bool {
		ret = append(ret, rowValues(asRow(v), c.columnNames))
		return true
	})
	return ret
}

// ForEach traverses every position, including nil rows.
func (df *DataFrame) ForEach(fn func(row Row, index any)) {
	df.getContent().pairs(func(p Pair) bool {
		fn(asRow(p.Value), p.Index)
		return true
	})
}

// Count traverses the DataFrame and returns the number of rows.
func (df *DataFrame) Count() int {
	return seqCount(df.getContent().values)
}

// Any reports whether the DataFrame has at least one row.
func (df *DataFrame) Any() bool {
	return seqAny(df.getContent().values)
}

// First returns the first row, or an error if the DataFrame is empty.
// Check Any() or Count() before calling on possibly-empty data.
func (df *DataFrame) First() (Row, error) {
	first, ok := seqFirst(df.getContent().values)
	if !ok {
		return nil, fmt.Errorf("first: DataFrame is empty")
	}
	return asRow(first), nil
}

// Last returns the final row, or an error if the DataFrame is empty.
func (df *DataFrame) Last() (Row, error) {
	last, ok := seqLast(df.getContent().values)
	if !ok {
		return nil, fmt.Errorf("last: DataFrame is empty")
	}
	return asRow(last), nil
}

// At returns the row whose index key matches indexValue, or nil if no key
// matches. Keys are matched in the stringified key space.
func (df *DataFrame) At(indexValue any) Row {
	want := keyString(indexValue)
	var ret Row
	df.getContent().pairs(func(p Pair) bool {
		if keyString(p.Index) == want {
			ret = asRow(p.Value)
			return false
		}
		return true
	})
	return ret
}

// -- COLUMN OPERATIONS

// WithSeries adds or replaces a column, aligning the incoming series to
// this DataFrame's index by index value: each row receives the series
// value whose index key matches the row's, or nil if none matches.
// Re-adding an existing column name neither duplicates nor repositions it.
func (df *DataFrame) WithSeries(name string, series *Series) *DataFrame {
	if series == nil {
		return dataFrameWithError(fmt.Errorf("with series: series cannot be nil"))
	}
	if series.err != nil {
		return dataFrameWithError(fmt.Errorf("with series: %v", series.err))
	}
	return df.withAlignedColumn(name, func(*DataFrame) *Series { return series })
}

// WithSeriesFunc adds or replaces a column produced from the DataFrame
// itself; generate is deferred until first access. Alignment follows
// WithSeries.
func (df *DataFrame) WithSeriesFunc(name string, generate func(df *DataFrame) *Series) *DataFrame {
	if generate == nil {
		return dataFrameWithError(fmt.Errorf("with series: generator cannot be nil"))
	}
	return df.withAlignedColumn(name, generate)
}

// EnsureSeries adds the column only if no column with that name exists.
func (df *DataFrame) EnsureSeries(name string, series *Series) *DataFrame {
	if series == nil {
		return dataFrameWithError(fmt.Errorf("ensure series: series cannot be nil"))
	}
	if series.err != nil {
		return dataFrameWithError(fmt.Errorf("ensure series: %v", series.err))
	}
	return df.EnsureSeriesFunc(name, func(*DataFrame) *Series { return series })
}

// EnsureSeriesFunc adds a generated column only if no column with that
// name exists; generate is not invoked when the column is present.
func (df *DataFrame) EnsureSeriesFunc(name string, generate func(df *DataFrame) *Series) *DataFrame {
	if generate == nil {
		return dataFrameWithError(fmt.Errorf("ensure series: generator cannot be nil"))
	}
	return df.fork(func(c *content) *content {
		if _, ok := findColumnName(name, c.columnNames); ok {
			return c
		}
		return df.withAlignedColumn(name, generate).getContent()
	})
}

func (df *DataFrame) withAlignedColumn(name string, generate func(df *DataFrame) *Series) *DataFrame {
	return df.fork(func(c *content) *content {
		series := generate(df)
		if series == nil {
			return errContent(fmt.Errorf("with series: generated series cannot be nil"))
		}
		sc := series.getContent()
		if sc.err != nil {
			return errContent(fmt.Errorf("with series: %v", sc.err))
		}
		col := name
		columnNames := c.columnNames
		if canonical, ok := findColumnName(name, c.columnNames); ok {
			col = canonical
		} else {
			columnNames = append(append([]string{}, c.columnNames...), name)
		}
		// the lookup map is rebuilt once per traversal, not per row
		aligned := func(yield func(Pair) bool) {
			byKey := seriesValuesByIndex(sc)
			c.pairs(func(p Pair) bool {
				row := copyRow(asRow(p.Value))
				row[col] = byKey[keyString(p.Index)]
				return yield(Pair{Index: p.Index, Value: row})
			})
		}
		return contentFromPairs(aligned, columnNames)
	})
}

// seriesValuesByIndex builds the index-value lookup map used for alignment.
func seriesValuesByIndex(sc *content) map[string]any {
	byKey := make(map[string]any)
	sc.pairs(func(p Pair) bool {
		if _, ok := byKey[keyString(p.Index)]; !ok {
			byKey[keyString(p.Index)] = p.Value
		}
		return true
	})
	return byKey
}

// DropSeries removes the named columns. Missing names are tolerated.
func (df *DataFrame) DropSeries(names ...string) *DataFrame {
	return df.fork(func(c *content) *content {
		drop := make(map[string]bool, len(names))
		for _, name := range names {
			if canonical, ok := findColumnName(name, c.columnNames); ok {
				drop[canonical] = true
			}
		}
		var columnNames []string
		for _, name := range c.columnNames {
			if !drop[name] {
				columnNames = append(columnNames, name)
			}
		}
		pairs := mapSeq(c.pairs, func(p Pair, _ int) Pair {
			row := copyRow(asRow(p.Value))
			for name := range drop {
				delete(row, name)
			}
			return Pair{Index: p.Index, Value: row}
		})
		return contentFromPairs(pairs, columnNames)
	})
}

// RenameSeries renames columns per the old-name to new-name mapping.
// Renaming a missing column is an error naming the column.
func (df *DataFrame) RenameSeries(mapping map[string]string) *DataFrame {
	return df.fork(func(c *content) *content {
		canonical := make(map[string]string, len(mapping))
		for old, newName := range mapping {
			found, ok := findColumnName(old, c.columnNames)
			if !ok {
				return errContent(fmt.Errorf("rename series: column %q not found (have %v)", old, c.columnNames))
			}
			canonical[found] = newName
		}
		columnNames := make([]string, len(c.columnNames))
		for i, name := range c.columnNames {
			if newName, ok := canonical[name]; ok {
				columnNames[i] = newName
			} else {
				columnNames[i] = name
			}
		}
		columnNames = dedupeColumnNames(columnNames)
		pairs := mapSeq(c.pairs, func(p Pair, _ int) Pair {
			row := copyRow(asRow(p.Value))
			for old, newName := range canonical {
				if val, ok := row[old]; ok {
					delete(row, old)
					row[newName] = val
				}
			}
			return Pair{Index: p.Index, Value: row}
		})
		return contentFromPairs(pairs, columnNames)
	})
}

// Subset keeps only the named columns, in the order given.
func (df *DataFrame) Subset(names ...string) *DataFrame {
	return df.fork(func(c *content) *content {
		columnNames := make([]string, 0, len(names))
		for _, name := range names {
			if canonical, ok := findColumnName(name, c.columnNames); ok {
				columnNames = append(columnNames, canonical)
			} else {
				columnNames = append(columnNames, name)
			}
		}
		pairs := mapSeq(c.pairs, func(p Pair, _ int) Pair {
			src := asRow(p.Value)
			row := make(Row, len(columnNames))
			for _, name := range columnNames {
				if val, ok := src[name]; ok {
					row[name] = val
				}
			}
			return Pair{Index: p.Index, Value: row}
		})
		return contentFromPairs(pairs, columnNames)
	})
}

// TransformSeries rewrites the values of one column in place in each row.
// A missing column is an error naming the column.
func (df *DataFrame) TransformSeries(name string, fn func(val any) any) *DataFrame {
	if fn == nil {
		return dataFrameWithError(fmt.Errorf("transform series: fn cannot be nil"))
	}
	return df.fork(func(c *content) *content {
		col, ok := findColumnName(name, c.columnNames)
		if !ok {
			return errContent(fmt.Errorf("transform series: column %q not found (have %v)", name, c.columnNames))
		}
		pairs := mapSeq(c.pairs, func(p Pair, _ int) Pair {
			row := copyRow(asRow(p.Value))
			row[col] = fn(row[col])
			return Pair{Index: p.Index, Value: row}
		})
		return contentFromPairs(pairs, c.columnNames)
	})
}

// -- TRANSFORMS

// Select transforms every row. Column names are re-inferred from the first
// transformed row (sorted for determinism). Returns a new lazy DataFrame
// sharing this one's index.
func (df *DataFrame) Select(fn func(row Row) Row) *DataFrame {
	if fn == nil {
		return dataFrameWithError(fmt.Errorf("select: fn cannot be nil"))
	}
	return df.fork(func(c *content) *content {
		pairs := mapSeq(c.pairs, func(p Pair, _ int) Pair {
			return Pair{Index: p.Index, Value: fn(asRow(p.Value))}
		})
		rowSeq := mapSeq(pairs, func(p Pair, _ int) Row { return asRow(p.Value) })
		columnNames := inferColumnNames(rowSeq, false)
		return contentFromPairs(pairs, columnNames)
	})
}

// Where filters to the rows satisfying pred. Returns a new lazy DataFrame.
func (df *DataFrame) Where(pred func(row Row) bool) *DataFrame {
	if pred == nil {
		return dataFrameWithError(fmt.Errorf("where: predicate cannot be nil"))
	}
	return df.forkPairs(func(c *content) seq[Pair] {
		return filterSeq(c.pairs, func(p Pair, _ int) bool {
			return pred(asRow(p.Value))
		})
	})
}

// Take keeps the first n rows. n <= 0 yields an empty DataFrame.
func (df *DataFrame) Take(n int) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return takeSeq(c.pairs, n)
	})
}

// TakeWhile keeps rows until pred first returns false.
func (df *DataFrame) TakeWhile(pred func(row Row) bool) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return takeWhileSeq(c.pairs, func(p Pair) bool { return pred(asRow(p.Value)) })
	})
}

// TakeUntil keeps rows until pred first returns true.
func (df *DataFrame) TakeUntil(pred func(row Row) bool) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return takeUntilSeq(c.pairs, func(p Pair) bool { return pred(asRow(p.Value)) })
	})
}

// Skip drops the first n rows. n <= 0 leaves the DataFrame unchanged.
func (df *DataFrame) Skip(n int) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return skipSeq(c.pairs, n)
	})
}

// SkipWhile drops rows until pred first returns false.
func (df *DataFrame) SkipWhile(pred func(row Row) bool) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return skipWhileSeq(c.pairs, func(p Pair) bool { return pred(asRow(p.Value)) })
	})
}

// SkipUntil drops rows until pred first returns true.
func (df *DataFrame) SkipUntil(pred func(row Row) bool) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return skipUntilSeq(c.pairs, func(p Pair) bool { return pred(asRow(p.Value)) })
	})
}

// Head keeps the first n rows.
func (df *DataFrame) Head(n int) *DataFrame {
	return df.Take(n)
}

// Tail keeps the final n rows. Traversal buffers at most n rows.
func (df *DataFrame) Tail(n int) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return tailSeq(c.pairs, n)
	})
}

// Reverse reverses the row order. Traversal buffers the entire input.
func (df *DataFrame) Reverse() *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return reverseSeq(c.pairs)
	})
}

// Concat appends the rows of the other DataFrames after this one's,
// preserving input order with no deduplication. The result's column list
// is the distinct concatenation of all inputs' column lists.
func (df *DataFrame) Concat(others ...*DataFrame) *DataFrame {
	for _, other := range others {
		if other == nil {
			return dataFrameWithError(fmt.Errorf("concat: other DataFrame cannot be nil"))
		}
		if other.err != nil {
			return dataFrameWithError(fmt.Errorf("concat: %v", other.err))
		}
	}
	return df.fork(func(c *content) *content {
		columnNames := append([]string{}, c.columnNames...)
		seqs := make([]seq[Pair], 0, len(others)+1)
		seqs = append(seqs, c.pairs)
		for _, other := range others {
			oc := other.getContent()
			if oc.err != nil {
				return errContent(fmt.Errorf("concat: %v", oc.err))
			}
			columnNames = mergeColumnNames(columnNames, oc.columnNames)
			seqs = append(seqs, oc.pairs)
		}
		return contentFromPairs(concatSeq(seqs...), columnNames)
	})
}

// Distinct keeps the first occurrence of each whole-row identity, in
// first-seen order. Row identity joins the stringified values in column
// order, so values that stringify identically collide.
func (df *DataFrame) Distinct() *DataFrame {
	return df.DistinctBy(nil)
}

// DistinctBy keeps the first occurrence of each stringified selector
// output, in first-seen order. A nil selector uses whole-row identity.
func (df *DataFrame) DistinctBy(selector func(row Row) any) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return distinctSeq(c.pairs, rowKeyFn(selector, c.columnNames))
	})
}

// SequentialDistinct collapses each run of adjacent rows with equal
// stringified selector output down to the last row of the run. A nil
// selector uses whole-row identity.
func (df *DataFrame) SequentialDistinct(selector func(row Row) any) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		key := rowKeyFn(selector, c.columnNames)
		runs := variableSeq(c.pairs, func(prev, curr Pair) bool {
			return key(prev) == key(curr)
		})
		return mapSeq(runs, func(run []Pair, _ int) Pair {
			return run[len(run)-1]
		})
	})
}

func rowKeyFn(selector func(row Row) any, columnNames []string) func(Pair) string {
	return func(p Pair) string {
		if selector == nil {
			return rowKey(asRow(p.Value), columnNames)
		}
		return keyString(selector(asRow(p.Value)))
	}
}

// WithIndex replaces the index with the values of the named column.
func (df *DataFrame) WithIndex(columnName string) *DataFrame {
	return df.fork(func(c *content) *content {
		col, ok := findColumnName(columnName, c.columnNames)
		if !ok {
			return errContent(fmt.Errorf("with index: column %q not found (have %v)", columnName, c.columnNames))
		}
		pairs := mapSeq(c.pairs, func(p Pair, _ int) Pair {
			return Pair{Index: asRow(p.Value)[col], Value: p.Value}
		})
		return contentFromPairs(pairs, c.columnNames)
	})
}

// ResetIndex replaces the index with a fresh 0-based sequence.
func (df *DataFrame) ResetIndex() *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		return resetIndexPairs(c.pairs)
	})
}

// Bake materializes the rows and pairs into concrete storage, so that
// repeat traversals no longer re-execute the upstream chain.
// Baking an already-baked DataFrame is a no-op.
func (df *DataFrame) Bake() *DataFrame {
	if df.err != nil {
		return dataFrameWithError(df.err)
	}
	c := df.getContent()
	if c.err != nil {
		return dataFrameWithError(c.err)
	}
	if c.baked {
		return df
	}
	return &DataFrame{content: readyContent(bakeContent(c))}
}

// -- WINDOWS

// Window splits the DataFrame into non-overlapping chunks of size period,
// including the final partial chunk. Each window is a baked DataFrame
// reusing the parent's column names; the result is a Series indexed by
// window number.
func (df *DataFrame) Window(period int) *Series {
	if period <= 0 {
		return seriesWithError(fmt.Errorf("window: period must be at least 1, not %d", period))
	}
	return df.windowBy(func(c *content) seq[[]Pair] {
		return windowSeq(c.pairs, period)
	})
}

// RollingWindow yields one window per offset; only full-size windows are
// emitted, so a DataFrame of length l yields l-period+1 windows.
func (df *DataFrame) RollingWindow(period int) *Series {
	if period <= 0 {
		return seriesWithError(fmt.Errorf("rolling window: period must be at least 1, not %d", period))
	}
	return df.windowBy(func(c *content) seq[[]Pair] {
		return rollingSeq(c.pairs, period)
	})
}

// VariableWindow starts a new window whenever comparer(prev, curr) is
// false; comparer sees adjacent rows only.
func (df *DataFrame) VariableWindow(comparer func(prev, curr Row) bool) *Series {
	if comparer == nil {
		return seriesWithError(fmt.Errorf("variable window: comparer cannot be nil"))
	}
	return df.windowBy(func(c *content) seq[[]Pair] {
		return variableSeq(c.pairs, func(prev, curr Pair) bool {
			return comparer(asRow(prev.Value), asRow(curr.Value))
		})
	})
}

func (df *DataFrame) windowBy(chunker func(c *content) seq[[]Pair]) *Series {
	if df.err != nil {
		return seriesWithError(df.err)
	}
	return &Series{content: newLazyContent(func() *content {
		c := df.getContent()
		if c.err != nil {
			return c
		}
		chunks := chunker(c)
		pairs := mapSeq(chunks, func(chunk []Pair, i int) Pair {
			sub := &DataFrame{content: readyContent(contentFromPairSlice(chunk, c.columnNames))}
			return Pair{Index: i, Value: sub}
		})
		return contentFromPairs(pairs, nil)
	})}
}

// -- GROUPERS

// GroupBy groups rows that share the same stringified selector output.
// The result is a Series of baked group DataFrames, indexed by group key,
// in first-appearance order (not sorted). Distinct selector outputs that
// stringify identically collide.
func (df *DataFrame) GroupBy(selector func(row Row) any) *Series {
	if selector == nil {
		return seriesWithError(fmt.Errorf("group by: selector cannot be nil"))
	}
	if df.err != nil {
		return seriesWithError(df.err)
	}
	return &Series{content: newLazyContent(func() *content {
		c := df.getContent()
		if c.err != nil {
			return c
		}
		keys, groups := groupPairs(c.pairs, func(p Pair) any { return selector(asRow(p.Value)) })
		pairs := make([]Pair, len(keys))
		for i := range keys {
			sub := &DataFrame{content: readyContent(contentFromPairSlice(groups[i], c.columnNames))}
			pairs[i] = Pair{Index: keys[i], Value: sub}
		}
		return contentFromPairSlice(pairs, nil)
	})}
}

// GroupSequentialBy groups runs of adjacent rows with equal stringified
// selector output, indexed by each run's key.
func (df *DataFrame) GroupSequentialBy(selector func(row Row) any) *Series {
	if selector == nil {
		return seriesWithError(fmt.Errorf("group sequential by: selector cannot be nil"))
	}
	if df.err != nil {
		return seriesWithError(df.err)
	}
	return &Series{content: newLazyContent(func() *content {
		c := df.getContent()
		if c.err != nil {
			return c
		}
		runs := variableSeq(c.pairs, func(prev, curr Pair) bool {
			return keyString(selector(asRow(prev.Value))) == keyString(selector(asRow(curr.Value)))
		})
		pairs := mapSeq(runs, func(run []Pair, _ int) Pair {
			sub := &DataFrame{content: readyContent(contentFromPairSlice(run, c.columnNames))}
			return Pair{Index: selector(asRow(run[0].Value)), Value: sub}
		})
		return contentFromPairs(pairs, nil)
	})}
}

// -- SET ALGEBRA

// Union concatenates other onto this DataFrame and removes duplicate rows
// by stringified selector output, first occurrence winning in
// concatenation order. A nil selector uses whole-row identity.
func (df *DataFrame) Union(other *DataFrame, selector func(row Row) any) *DataFrame {
	return df.Concat(other).DistinctBy(selector)
}

// Intersection keeps the rows whose key also appears in other, matching in
// the stringified key space. Nil selectors use each side's whole-row
// identity. The inner key set is rebuilt per traversal.
func (df *DataFrame) Intersection(other *DataFrame, selector, otherSelector func(row Row) any) *DataFrame {
	if other == nil {
		return dataFrameWithError(fmt.Errorf("intersection: other DataFrame cannot be nil"))
	}
	if other.err != nil {
		return dataFrameWithError(fmt.Errorf("intersection: %v", other.err))
	}
	return df.forkPairs(func(c *content) seq[Pair] {
		key := rowKeyFn(selector, c.columnNames)
		return func(yield func(Pair) bool) {
			innerKeys := rowKeySet(other, otherSelector)
			c.pairs(func(p Pair) bool {
				if !innerKeys[key(p)] {
					return true
				}
				return yield(p)
			})
		}
	})
}

// Except keeps the rows whose key does not appear in other, matching in
// the stringified key space. Nil selectors use each side's whole-row
// identity.
func (df *DataFrame) Except(other *DataFrame, selector, otherSelector func(row Row) any) *DataFrame {
	if other == nil {
		return dataFrameWithError(fmt.Errorf("except: other DataFrame cannot be nil"))
	}
	if other.err != nil {
		return dataFrameWithError(fmt.Errorf("except: %v", other.err))
	}
	return df.forkPairs(func(c *content) seq[Pair] {
		key := rowKeyFn(selector, c.columnNames)
		return func(yield func(Pair) bool) {
			innerKeys := rowKeySet(other, otherSelector)
			c.pairs(func(p Pair) bool {
				if innerKeys[key(p)] {
					return true
				}
				return yield(p)
			})
		}
	})
}

func rowKeySet(df *DataFrame, selector func(row Row) any) map[string]bool {
	c := df.getContent()
	key := rowKeyFn(selector, c.columnNames)
	set := make(map[string]bool)
	c.pairs(func(p Pair) bool {
		set[key(p)] = true
		return true
	})
	return set
}

// -- RANGE QUERIES
// All range operators assume the index is sorted ascending under the
// detected key type's ordering.

// StartAt keeps the rows at or after indexValue.
func (df *DataFrame) StartAt(indexValue any) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		ix := newIndex(c.index)
		return skipWhileSeq(c.pairs, func(p Pair) bool { return ix.LessThan(p.Index, indexValue) })
	})
}

// EndAt keeps the rows at or before indexValue.
func (df *DataFrame) EndAt(indexValue any) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		ix := newIndex(c.index)
		return takeWhileSeq(c.pairs, func(p Pair) bool { return ix.LessThanOrEqualTo(p.Index, indexValue) })
	})
}

// Before keeps the rows strictly before indexValue.
func (df *DataFrame) Before(indexValue any) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		ix := newIndex(c.index)
		return takeWhileSeq(c.pairs, func(p Pair) bool { return ix.LessThan(p.Index, indexValue) })
	})
}

// After keeps the rows strictly after indexValue.
func (df *DataFrame) After(indexValue any) *DataFrame {
	return df.forkPairs(func(c *content) seq[Pair] {
		ix := newIndex(c.index)
		return skipWhileSeq(c.pairs, func(p Pair) bool { return ix.LessThanOrEqualTo(p.Index, indexValue) })
	})
}

// Between keeps the rows from startIndexValue through endIndexValue
// inclusive.
func (df *DataFrame) Between(startIndexValue, endIndexValue any) *DataFrame {
	return df.StartAt(startIndexValue).EndAt(endIndexValue)
}

// -- REPORTING

// DetectTypes makes one pass per column and reports the frequency of each
// runtime type tag as a DataFrame with Type, Frequency, and Column
// columns, ties broken by first-occurrence order.
func (df *DataFrame) DetectTypes() *DataFrame {
	c := df.getContent()
	var rows []Row
	for _, col := range c.columnNames {
		colValues := mapSeq(c.values, func(v any, _ int) any { return asRow(v)[col] })
		keys, counts := frequencies(colValues, typeTag)
		for i, key := range keys {
			rows = append(rows, Row{"Type": key, "Frequency": counts[i], "Column": col})
		}
	}
	return NewDataFrameConfig(DataFrameConfig{
		Values:      rows,
		ColumnNames: []string{"Type", "Frequency", "Column"},
	})
}

// DetectValues makes one pass per column and reports the frequency of each
// exact value as a DataFrame with Value, Frequency, and Column columns,
// ties broken by first-occurrence order.
func (df *DataFrame) DetectValues() *DataFrame {
	c := df.getContent()
	var rows []Row
	for _, col := range c.columnNames {
		var order []any
		position := make(map[string]int)
		var counts []int
		c.values(func(v any) bool {
			val := asRow(v)[col]
			ks := keyString(val)
			at, ok := position[ks]
			if !ok {
				at = len(order)
				position[ks] = at
				order = append(order, val)
				counts = append(counts, 0)
			}
			counts[at]++
			return true
		})
		for i, val := range order {
			rows = append(rows, Row{"Value": val, "Frequency": counts[i], "Column": col})
		}
	}
	return NewDataFrameConfig(DataFrameConfig{
		Values:      rows,
		ColumnNames: []string{"Value", "Frequency", "Column"},
	})
}
