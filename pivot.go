package tabula

import (
	"fmt"
	"sort"
)

// Pivot summarizes the DataFrame by the given pivot columns: rows are
// grouped iteratively, one level per pivot column in left-to-right
// priority, and each leaf group's valueColumn series is reduced with agg.
// A nil agg keeps the first value of each leaf group.
// The result has one row per distinct pivot-key combination, with columns
// pivotColumns + valueColumn, sorted ascending by each pivot column in the
// same left-to-right priority used for grouping, and a fresh 0-based index.
func (df *DataFrame) Pivot(pivotColumns []string, valueColumn string, agg func(values *Series) any) *DataFrame {
	if len(pivotColumns) == 0 {
		return dataFrameWithError(fmt.Errorf("pivot: at least one pivot column is required"))
	}
	if valueColumn == "" {
		return dataFrameWithError(fmt.Errorf("pivot: value column cannot be empty"))
	}
	if agg == nil {
		agg = func(values *Series) any {
			first, err := values.First()
			if err != nil {
				return nil
			}
			return first
		}
	}
	return df.fork(func(c *content) *content {
		for _, col := range pivotColumns {
			if _, ok := findColumnName(col, c.columnNames); !ok {
				return errContent(fmt.Errorf("pivot: column %q not found (have %v)", col, c.columnNames))
			}
		}
		valueCol, ok := findColumnName(valueColumn, c.columnNames)
		if !ok {
			return errContent(fmt.Errorf("pivot: column %q not found (have %v)", valueColumn, c.columnNames))
		}

		type pivotGroup struct {
			keys  []any
			pairs []Pair
		}
		groups := []pivotGroup{{pairs: collect(c.pairs)}}
		for _, name := range pivotColumns {
			col, _ := findColumnName(name, c.columnNames)
			var next []pivotGroup
			for _, g := range groups {
				keys, subGroups := groupPairs(seqOf(g.pairs), func(p Pair) any {
					return asRow(p.Value)[col]
				})
				for i := range keys {
					next = append(next, pivotGroup{
						keys:  append(append([]any{}, g.keys...), keys[i]),
						pairs: subGroups[i],
					})
				}
			}
			groups = next
		}

		outputColumns := append(append([]string{}, pivotColumns...), valueCol)
		rows := make([]Row, len(groups))
		for i, g := range groups {
			leaf := &DataFrame{content: readyContent(contentFromPairSlice(g.pairs, c.columnNames))}
			row := make(Row, len(outputColumns))
			for j, name := range pivotColumns {
				row[name] = g.keys[j]
			}
			row[valueCol] = agg(leaf.GetSeries(valueCol))
			rows[i] = row
		}
		sort.SliceStable(rows, func(i, j int) bool {
			for _, name := range pivotColumns {
				cmp := compareValues(rows[i][name], rows[j][name])
				if cmp != 0 {
					return cmp < 0
				}
			}
			return false
		})

		pairs := make([]Pair, len(rows))
		for i, row := range rows {
			pairs[i] = Pair{Index: i, Value: row}
		}
		return contentFromPairSlice(pairs, dedupeColumnNames(outputColumns))
	})
}
