package tabula

import (
	"reflect"
	"testing"
	"time"
)

func TestIndex_Kind(t *testing.T) {
	type args struct {
		keys []any
	}
	tests := []struct {
		name string
		args args
		want KeyKind
	}{
		{"numbers", args{[]any{0, 1, 2}}, KeyNumber},
		{"floats", args{[]any{0.5, 1.5}}, KeyNumber},
		{"strings", args{[]any{"a", "b"}}, KeyString},
		{"times", args{[]any{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}}, KeyTime},
		{"first non-nil key decides", args{[]any{nil, "a", 1}}, KeyString},
		{"all nil", args{[]any{nil, nil}}, KeyOther},
		{"empty", args{nil}, KeyOther},
		{"unrecognized type", args{[]any{struct{}{}}}, KeyOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := newIndex(seqOf(tt.args.keys))
			if got := ix.Kind(); got != tt.want {
				t.Errorf("Index.Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndex_LessThan(t *testing.T) {
	type args struct {
		keys []any
		a    any
		b    any
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{"numeric", args{[]any{0, 1}, 2, 10}, true},
		{"numeric not less", args{[]any{0, 1}, 10, 2}, false},
		{"lexicographic", args{[]any{"a"}, "10", "2"}, true},
		{"chronological", args{
			[]any{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
			time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)}, true},
		{"equal keys", args{[]any{0}, 5, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := newIndex(seqOf(tt.args.keys))
			if got := ix.LessThan(tt.args.a, tt.args.b); got != tt.want {
				t.Errorf("Index.LessThan() = %v, want %v", got, tt.want)
			}
			if lte := ix.LessThanOrEqualTo(tt.args.a, tt.args.b); !lte && tt.want {
				t.Errorf("Index.LessThanOrEqualTo() = %v, want true when LessThan is true", lte)
			}
		})
	}
}

func TestIndex_Values(t *testing.T) {
	s := NewSeriesConfig(SeriesConfig{Values: []any{10, 20, 30}, Index: []any{"a", "b", "c"}})
	got := s.Index().Values()
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Index.Values() = %v, want %v", got, want)
	}
	if count := s.Index().Count(); count != 3 {
		t.Errorf("Index.Count() = %v, want 3", count)
	}
}

func TestIndex_FirstLast(t *testing.T) {
	ix := newIndex(seqOf([]any{"a", "b", "c"}))
	first, err := ix.First()
	if err != nil || first != "a" {
		t.Errorf("Index.First() = %v, %v, want a, nil", first, err)
	}
	last, err := ix.Last()
	if err != nil || last != "c" {
		t.Errorf("Index.Last() = %v, %v, want c, nil", last, err)
	}

	empty := newIndex(emptySeq[any]())
	if _, err := empty.First(); err == nil {
		t.Error("Index.First() on empty index: want error, got nil")
	}
	if _, err := empty.Last(); err == nil {
		t.Error("Index.Last() on empty index: want error, got nil")
	}
}
