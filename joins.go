package tabula

import "fmt"

// Join performs an inner join of inner onto df. Keys are matched in the
// stringified key space. An inner key-to-rows map is built in one pass;
// a single outer pass then emits one merged row per matching
// (outer, inner) pair, in outer-iteration order. The output index is a
// fresh 0-based sequence; neither input's index is preserved.
func (df *DataFrame) Join(inner *DataFrame, outerKey, innerKey func(row Row) any, merge func(outer, inner Row) Row) *DataFrame {
	if err := validateJoinArgs(inner, outerKey, innerKey, merge); err != nil {
		return dataFrameWithError(fmt.Errorf("join: %v", err))
	}
	return df.joinRows(func(c *content) seq[Row] {
		return func(yield func(Row) bool) {
			byKey := rowsByKey(inner, innerKey)
			c.values(func(v any) bool {
				outerRow := asRow(v)
				for _, innerRow := range byKey[keyString(outerKey(outerRow))] {
					if !yield(merge(outerRow, innerRow)) {
						return false
					}
				}
				return true
			})
		}
	})
}

// JoinOuter performs a full outer join of inner onto df: rows found only
// in df (merged with a nil inner side), then the inner join's matches in
// outer-iteration order, then rows found only in inner (merged with a nil
// outer side). The output index is a fresh 0-based sequence.
func (df *DataFrame) JoinOuter(inner *DataFrame, outerKey, innerKey func(row Row) any, merge func(outer, inner Row) Row) *DataFrame {
	return df.joinOuter(inner, outerKey, innerKey, merge, true, true)
}

// JoinOuterLeft performs a left outer join: rows found only in df, then
// the inner join's matches. The output index is a fresh 0-based sequence.
func (df *DataFrame) JoinOuterLeft(inner *DataFrame, outerKey, innerKey func(row Row) any, merge func(outer, inner Row) Row) *DataFrame {
	return df.joinOuter(inner, outerKey, innerKey, merge, true, false)
}

// JoinOuterRight performs a right outer join: the inner join's matches,
// then rows found only in inner. The output index is a fresh 0-based
// sequence.
func (df *DataFrame) JoinOuterRight(inner *DataFrame, outerKey, innerKey func(row Row) any, merge func(outer, inner Row) Row) *DataFrame {
	return df.joinOuter(inner, outerKey, innerKey, merge, false, true)
}

func (df *DataFrame) joinOuter(inner *DataFrame, outerKey, innerKey func(row Row) any, merge func(outer, inner Row) Row, includeOuterOnly, includeInnerOnly bool) *DataFrame {
	if err := validateJoinArgs(inner, outerKey, innerKey, merge); err != nil {
		return dataFrameWithError(fmt.Errorf("join outer: %v", err))
	}
	return df.joinRows(func(c *content) seq[Row] {
		return func(yield func(Row) bool) {
			byKey := rowsByKey(inner, innerKey)
			if includeOuterOnly {
				stopped := false
				c.values(func(v any) bool {
					outerRow := asRow(v)
					if _, ok := byKey[keyString(outerKey(outerRow))]; ok {
						return true
					}
					if !yield(merge(outerRow, nil)) {
						stopped = true
						return false
					}
					return true
				})
				if stopped {
					return
				}
			}
			stopped := false
			c.values(func(v any) bool {
				outerRow := asRow(v)
				for _, innerRow := range byKey[keyString(outerKey(outerRow))] {
					if !yield(merge(outerRow, innerRow)) {
						stopped = true
						return false
					}
				}
				return true
			})
			if stopped || !includeInnerOnly {
				return
			}
			outerKeys := make(map[string]bool)
			c.values(func(v any) bool {
				outerKeys[keyString(outerKey(asRow(v)))] = true
				return true
			})
			inner.getContent().values(func(v any) bool {
				innerRow := asRow(v)
				if outerKeys[keyString(innerKey(innerRow))] {
					return true
				}
				return yield(merge(nil, innerRow))
			})
		}
	})
}

// joinRows wraps merged rows with a fresh index and column names inferred
// from the first merged row.
func (df *DataFrame) joinRows(produce func(c *content) seq[Row]) *DataFrame {
	return df.fork(func(c *content) *content {
		rows := produce(c)
		pairs := mapSeq(rows, func(row Row, i int) Pair {
			return Pair{Index: i, Value: row}
		})
		columnNames := inferColumnNames(rows, false)
		return contentFromPairs(pairs, columnNames)
	})
}

// rowsByKey builds the inner-side key-to-rows map, preserving insertion
// order within each key.
func rowsByKey(df *DataFrame, key func(row Row) any) map[string][]Row {
	byKey := make(map[string][]Row)
	df.getContent().values(func(v any) bool {
		row := asRow(v)
		k := keyString(key(row))
		byKey[k] = append(byKey[k], row)
		return true
	})
	return byKey
}

func validateJoinArgs(inner *DataFrame, outerKey, innerKey func(row Row) any, merge func(outer, inner Row) Row) error {
	if inner == nil {
		return fmt.Errorf("inner DataFrame cannot be nil")
	}
	if inner.err != nil {
		return inner.err
	}
	if outerKey == nil || innerKey == nil {
		return fmt.Errorf("key selectors cannot be nil")
	}
	if merge == nil {
		return fmt.Errorf("merge function cannot be nil")
	}
	return nil
}
