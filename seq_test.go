package tabula

import (
	"reflect"
	"testing"

	"github.com/d4l3k/messagediff"
)

func Test_takeSeq(t *testing.T) {
	type args struct {
		values []any
		n      int
	}
	tests := []struct {
		name string
		args args
		want []any
	}{
		{"subset", args{[]any{1, 2, 3}, 2}, []any{1, 2}},
		{"more than length", args{[]any{1, 2, 3}, 5}, []any{1, 2, 3}},
		{"zero is empty", args{[]any{1, 2, 3}, 0}, nil},
		{"negative is empty", args{[]any{1, 2, 3}, -1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(takeSeq(seqOf(tt.args.values), tt.args.n)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("takeSeq() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_skipSeq(t *testing.T) {
	type args struct {
		values []any
		n      int
	}
	tests := []struct {
		name string
		args args
		want []any
	}{
		{"subset", args{[]any{1, 2, 3}, 2}, []any{3}},
		{"more than length", args{[]any{1, 2, 3}, 5}, nil},
		{"zero is identity", args{[]any{1, 2, 3}, 0}, []any{1, 2, 3}},
		{"negative is identity", args{[]any{1, 2, 3}, -1}, []any{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(skipSeq(seqOf(tt.args.values), tt.args.n)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("skipSeq() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_zipSeq(t *testing.T) {
	type args struct {
		seqs [][]any
	}
	tests := []struct {
		name string
		args args
		want [][]any
	}{
		{"equal lengths", args{[][]any{{1, 2}, {"a", "b"}}},
			[][]any{{1, "a"}, {2, "b"}}},
		{"stops at shortest", args{[][]any{{1, 2, 3}, {"a"}}},
			[][]any{{1, "a"}}},
		{"empty input", args{[][]any{{1, 2}, {}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs := make([]seq[any], len(tt.args.seqs))
			for i, s := range tt.args.seqs {
				seqs[i] = seqOf(s)
			}
			if got := collect(zipSeq(seqs)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("zipSeq() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_tailSeq(t *testing.T) {
	type args struct {
		values []any
		n      int
	}
	tests := []struct {
		name string
		args args
		want []any
	}{
		{"subset", args{[]any{1, 2, 3, 4}, 2}, []any{3, 4}},
		{"more than length", args{[]any{1, 2}, 5}, []any{1, 2}},
		{"zero", args{[]any{1, 2}, 0}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(tailSeq(seqOf(tt.args.values), tt.args.n)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tailSeq() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_windowSeq(t *testing.T) {
	type args struct {
		values []any
		period int
	}
	tests := []struct {
		name string
		args args
		want [][]any
	}{
		{"with partial final chunk", args{[]any{1, 2, 3, 4, 5}, 2},
			[][]any{{1, 2}, {3, 4}, {5}}},
		{"exact chunks", args{[]any{1, 2, 3, 4}, 2},
			[][]any{{1, 2}, {3, 4}}},
		{"period exceeds length", args{[]any{1, 2}, 5},
			[][]any{{1, 2}}},
		{"empty", args{nil, 2}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(windowSeq(seqOf(tt.args.values), tt.args.period)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("windowSeq() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_rollingSeq(t *testing.T) {
	type args struct {
		values []any
		period int
	}
	tests := []struct {
		name string
		args args
		want [][]any
	}{
		{"full windows only", args{[]any{1, 2, 3, 4, 5}, 2},
			[][]any{{1, 2}, {2, 3}, {3, 4}, {4, 5}}},
		{"period exceeds length", args{[]any{1, 2}, 5}, nil},
		{"period equals length", args{[]any{1, 2}, 2},
			[][]any{{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(rollingSeq(seqOf(tt.args.values), tt.args.period)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rollingSeq() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_variableSeq(t *testing.T) {
	type args struct {
		values []any
		same   func(prev, curr any) bool
	}
	adjacent := func(prev, curr any) bool { return curr.(int)-prev.(int) == 1 }
	tests := []struct {
		name string
		args args
		want [][]any
	}{
		{"runs of adjacent integers", args{[]any{1, 2, 3, 5, 6, 9}, adjacent},
			[][]any{{1, 2, 3}, {5, 6}, {9}}},
		{"single run", args{[]any{1, 2, 3}, adjacent},
			[][]any{{1, 2, 3}}},
		{"empty", args{nil, adjacent}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(variableSeq(seqOf(tt.args.values), tt.args.same)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("variableSeq() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_distinctSeq(t *testing.T) {
	got := collect(distinctSeq(seqOf([]any{"b", "a", "b", "c", "a"}), keyString))
	want := []any{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("distinctSeq() = %v, want %v", got, want)
	}
}

func Test_sortSeq(t *testing.T) {
	type record struct {
		group string
		n     int
		tag   string
	}
	input := []record{
		{"b", 2, "first"},
		{"a", 1, "second"},
		{"b", 1, "third"},
		{"a", 1, "fourth"},
	}
	t.Run("multi-key with descending level", func(t *testing.T) {
		specs := []sortSpec[record]{
			{selector: func(r record) any { return r.group }},
			{selector: func(r record) any { return r.n }, descending: true},
		}
		got := collect(sortSeq(seqOf(input), specs))
		want := []record{
			{"a", 1, "second"},
			{"a", 1, "fourth"},
			{"b", 2, "first"},
			{"b", 1, "third"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("sortSeq() = %v, want %v", got, want)
			t.Error(messagediff.PrettyDiff(got, want))
		}
	})
	t.Run("full ties preserve input order", func(t *testing.T) {
		specs := []sortSpec[record]{
			{selector: func(record) any { return 0 }},
		}
		got := collect(sortSeq(seqOf(input), specs))
		if !reflect.DeepEqual(got, input) {
			t.Errorf("sortSeq() = %v, want %v", got, input)
		}
	})
	t.Run("restartable", func(t *testing.T) {
		specs := []sortSpec[record]{
			{selector: func(r record) any { return r.n }},
		}
		sorted := sortSeq(seqOf(input), specs)
		first := collect(sorted)
		second := collect(sorted)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("second traversal = %v, want %v", second, first)
		}
	})
}

func Test_compareValues(t *testing.T) {
	type args struct {
		a any
		b any
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{"numbers", args{1, 2}, -1},
		{"mixed numeric types", args{1.5, 1}, 1},
		{"equal numbers", args{2, 2.0}, 0},
		{"strings", args{"a", "b"}, -1},
		{"bools", args{false, true}, -1},
		{"nil before everything", args{nil, -999}, -1},
		{"both nil", args{nil, nil}, 0},
		{"mixed types fall back to strings", args{10, "2"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareValues(tt.args.a, tt.args.b); got != tt.want {
				t.Errorf("compareValues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_dedupeColumnNames(t *testing.T) {
	type args struct {
		names []string
	}
	tests := []struct {
		name string
		args args
		want []string
	}{
		{"no duplicates", args{[]string{"a", "b"}}, []string{"a", "b"}},
		{"exact duplicate", args{[]string{"a", "a", "a"}}, []string{"a", "a.1", "a.2"}},
		{"case-insensitive duplicate", args{[]string{"Amount", "amount"}}, []string{"Amount", "amount.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dedupeColumnNames(tt.args.names); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dedupeColumnNames() = %v, want %v", got, tt.want)
			}
		})
	}
}
