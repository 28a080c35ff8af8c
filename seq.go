package tabula

import (
	"iter"
	"sort"
)

// A seq is a restartable sequence: each invocation starts a fresh traversal
// from the beginning, and no cursor state lives on the value itself.
// Combinators return sequences that re-run their transformation on every
// independent traversal; a consumer cancels by returning false from yield.
type seq[T any] func(yield func(T) bool)

// a sort level: selector extracts the comparison key, level order is the
// position within the slice (0 = highest priority).
type sortSpec[T any] struct {
	selector   func(T) any
	descending bool
}

func emptySeq[T any]() seq[T] {
	return func(func(T) bool) {}
}

// seqOf wraps a slice. The slice is shared, not copied.
func seqOf[T any](slice []T) seq[T] {
	return func(yield func(T) bool) {
		for _, v := range slice {
			if !yield(v) {
				return
			}
		}
	}
}

func collect[T any](s seq[T]) []T {
	var ret []T
	s(func(v T) bool {
		ret = append(ret, v)
		return true
	})
	return ret
}

func seqCount[T any](s seq[T]) int {
	var n int
	s(func(T) bool {
		n++
		return true
	})
	return n
}

func seqAny[T any](s seq[T]) bool {
	var found bool
	s(func(T) bool {
		found = true
		return false
	})
	return found
}

func seqFirst[T any](s seq[T]) (T, bool) {
	var first T
	var found bool
	s(func(v T) bool {
		first = v
		found = true
		return false
	})
	return first, found
}

func seqLast[T any](s seq[T]) (T, bool) {
	var last T
	var found bool
	s(func(v T) bool {
		last = v
		found = true
		return true
	})
	return last, found
}

// mapSeq passes each value and its position in the sequence to fn.
func mapSeq[T, U any](s seq[T], fn func(T, int) U) seq[U] {
	return func(yield func(U) bool) {
		var i int
		s(func(v T) bool {
			ok := yield(fn(v, i))
			i++
			return ok
		})
	}
}

// filterSeq passes each value and its position in the sequence to fn.
func filterSeq[T any](s seq[T], fn func(T, int) bool) seq[T] {
	return func(yield func(T) bool) {
		var i int
		s(func(v T) bool {
			keep := fn(v, i)
			i++
			if keep {
				return yield(v)
			}
			return true
		})
	}
}

// takeSeq yields the first n values. n <= 0 yields an empty sequence.
func takeSeq[T any](s seq[T], n int) seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		var i int
		s(func(v T) bool {
			if !yield(v) {
				return false
			}
			i++
			return i < n
		})
	}
}

// skipSeq skips the first n values. n <= 0 leaves the sequence unchanged.
func skipSeq[T any](s seq[T], n int) seq[T] {
	return func(yield func(T) bool) {
		var i int
		s(func(v T) bool {
			if i < n {
				i++
				return true
			}
			return yield(v)
		})
	}
}

func takeWhileSeq[T any](s seq[T], fn func(T) bool) seq[T] {
	return func(yield func(T) bool) {
		s(func(v T) bool {
			if !fn(v) {
				return false
			}
			return yield(v)
		})
	}
}

func takeUntilSeq[T any](s seq[T], fn func(T) bool) seq[T] {
	return takeWhileSeq(s, func(v T) bool { return !fn(v) })
}

func skipWhileSeq[T any](s seq[T], fn func(T) bool) seq[T] {
	return func(yield func(T) bool) {
		skipping := true
		s(func(v T) bool {
			if skipping && fn(v) {
				return true
			}
			skipping = false
			return yield(v)
		})
	}
}

func skipUntilSeq[T any](s seq[T], fn func(T) bool) seq[T] {
	return skipWhileSeq(s, func(v T) bool { return !fn(v) })
}

// concatSeq preserves input order and performs no deduplication.
func concatSeq[T any](seqs ...seq[T]) seq[T] {
	return func(yield func(T) bool) {
		for _, s := range seqs {
			stopped := false
			s(func(v T) bool {
				if !yield(v) {
					stopped = true
					return false
				}
				return true
			})
			if stopped {
				return
			}
		}
	}
}

// zipSeq yields one slice per position, stopping at the shortest input.
func zipSeq[T any](seqs []seq[T]) seq[[]T] {
	return func(yield func([]T) bool) {
		if len(seqs) == 0 {
			return
		}
		nexts := make([]func() (T, bool), len(seqs))
		stops := make([]func(), len(seqs))
		for i, s := range seqs {
			next, stop := iter.Pull(iter.Seq[T](s))
			nexts[i] = next
			stops[i] = stop
		}
		defer func() {
			for _, stop := range stops {
				stop()
			}
		}()
		for {
			vals := make([]T, len(seqs))
			for i, next := range nexts {
				v, ok := next()
				if !ok {
					return
				}
				vals[i] = v
			}
			if !yield(vals) {
				return
			}
		}
	}
}

// distinctSeq is global and first-occurrence-wins, preserving first-seen order.
func distinctSeq[T any](s seq[T], key func(T) string) seq[T] {
	return func(yield func(T) bool) {
		seen := make(map[string]bool)
		s(func(v T) bool {
			k := key(v)
			if seen[k] {
				return true
			}
			seen[k] = true
			return yield(v)
		})
	}
}

// reverseSeq buffers the entire input; there is no backward cursor on an
// arbitrary source.
func reverseSeq[T any](s seq[T]) seq[T] {
	return func(yield func(T) bool) {
		buf := collect(s)
		for i := len(buf) - 1; i >= 0; i-- {
			if !yield(buf[i]) {
				return
			}
		}
	}
}

// tailSeq yields the final n values, buffering at most n at a time.
func tailSeq[T any](s seq[T], n int) seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		var buf []T
		s(func(v T) bool {
			buf = append(buf, v)
			if len(buf) > n {
				buf = buf[1:]
			}
			return true
		})
		for _, v := range buf {
			if !yield(v) {
				return
			}
		}
	}
}

// windowSeq yields non-overlapping chunks of size period; the final partial
// chunk is included. Callers must validate period >= 1.
func windowSeq[T any](s seq[T], period int) seq[[]T] {
	return func(yield func([]T) bool) {
		var buf []T
		stopped := false
		s(func(v T) bool {
			buf = append(buf, v)
			if len(buf) == period {
				chunk := buf
				buf = nil
				if !yield(chunk) {
					stopped = true
					return false
				}
			}
			return true
		})
		if !stopped && len(buf) > 0 {
			yield(buf)
		}
	}
}

// rollingSeq yields overlapping chunks starting at every offset; only
// full-size windows are emitted. Callers must validate period >= 1.
func rollingSeq[T any](s seq[T], period int) seq[[]T] {
	return func(yield func([]T) bool) {
		buf := make([]T, 0, period)
		s(func(v T) bool {
			buf = append(buf, v)
			if len(buf) < period {
				return true
			}
			chunk := make([]T, period)
			copy(chunk, buf)
			buf = buf[1:]
			return yield(chunk)
		})
	}
}

// variableSeq starts a new chunk whenever same(prev, curr) is false.
// same compares adjacent elements only.
func variableSeq[T any](s seq[T], same func(prev, curr T) bool) seq[[]T] {
	return func(yield func([]T) bool) {
		var buf []T
		stopped := false
		s(func(v T) bool {
			if len(buf) > 0 && !same(buf[len(buf)-1], v) {
				chunk := buf
				buf = nil
				if !yield(chunk) {
					stopped = true
					return false
				}
			}
			buf = append(buf, v)
			return true
		})
		if !stopped && len(buf) > 0 {
			yield(buf)
		}
	}
}

// sortSeq fully materializes the input and applies a stable multi-key sort.
// Specs are compared level by level with type-aware relational comparison;
// full ties preserve input order.
func sortSeq[T any](s seq[T], specs []sortSpec[T]) seq[T] {
	return func(yield func(T) bool) {
		buf := collect(s)
		sort.SliceStable(buf, func(i, j int) bool {
			for _, spec := range specs {
				cmp := compareValues(spec.selector(buf[i]), spec.selector(buf[j]))
				if spec.descending {
					cmp = -cmp
				}
				if cmp != 0 {
					return cmp < 0
				}
			}
			return false
		})
		for _, v := range buf {
			if !yield(v) {
				return
			}
		}
	}
}
