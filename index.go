package tabula

import (
	"fmt"
	"sync"
	"time"
)

// An Index wraps the key sequence aligned 1:1 with a Series or DataFrame's
// values. It detects its key type lazily from the first non-nil key and
// exposes the ordering predicates used by range queries.
//
// The range operators (StartAt, EndAt, Before, After, Between) assume the
// index is already sorted ascending under these predicates; behavior on an
// unsorted index is unspecified.
type Index struct {
	keys seq[any]
	once sync.Once
	kind KeyKind
}

func newIndex(keys seq[any]) *Index {
	return &Index{keys: keys}
}

// Kind reports the detected key type. Detection runs once, on the first
// non-nil key; an empty or all-nil index is KeyOther.
func (ix *Index) Kind() KeyKind {
	ix.once.Do(func() {
		ix.keys(func(key any) bool {
			if key == nil {
				return true
			}
			switch key.(type) {
			case string:
				ix.kind = KeyString
			case time.Time:
				ix.kind = KeyTime
			default:
				if _, ok := numericValue(key); ok {
					ix.kind = KeyNumber
				} else {
					ix.kind = KeyOther
				}
			}
			return false
		})
	})
	return ix.kind
}

// LessThan orders two keys under the detected key type: numeric for
// KeyNumber, lexicographic for KeyString, chronological for KeyTime.
// Comparing across mixed key types is unspecified and falls back to
// stringified order.
func (ix *Index) LessThan(a, b any) bool {
	switch ix.Kind() {
	case KeyNumber:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			return af < bf
		}
	case KeyTime:
		at, aok := a.(time.Time)
		bt, bok := b.(time.Time)
		if aok && bok {
			return at.Before(bt)
		}
	}
	return keyString(a) < keyString(b)
}

// LessThanOrEqualTo orders two keys under the detected key type, allowing
// equality.
func (ix *Index) LessThanOrEqualTo(a, b any) bool {
	return !ix.LessThan(b, a)
}

// Values materializes the index keys.
func (ix *Index) Values() []any {
	return collect(ix.keys)
}

// First returns the first key, or an error if the index is empty.
func (ix *Index) First() (any, error) {
	first, ok := seqFirst(ix.keys)
	if !ok {
		return nil, fmt.Errorf("first: index is empty")
	}
	return first, nil
}

// Last returns the final key, or an error if the index is empty.
func (ix *Index) Last() (any, error) {
	last, ok := seqLast(ix.keys)
	if !ok {
		return nil, fmt.Errorf("last: index is empty")
	}
	return last, nil
}

// Count traverses the index and returns the number of keys.
func (ix *Index) Count() int {
	return seqCount(ix.keys)
}
