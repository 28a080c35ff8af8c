package tabula

import (
	"strings"
	"testing"
)

func TestSetOptionMaxRows(t *testing.T) {
	defer SetOptionMaxRows(50)
	SetOptionMaxRows(2)

	s := NewSeries([]any{"aaa", "bbb", "ccc", "ddd", "eee"})
	got := s.String()
	for _, fragment := range []string{"aaa", "bbb", "..."} {
		if !strings.Contains(got, fragment) {
			t.Errorf("Series.String() missing %q in:\n%s", fragment, got)
		}
	}
	if strings.Contains(got, "eee") {
		t.Errorf("Series.String() rendered a row beyond the maximum:\n%s", got)
	}

	df := NewDataFrame([]Row{{"s": "aaa"}, {"s": "bbb"}, {"s": "ccc"}})
	if !strings.Contains(df.String(), "...") {
		t.Errorf("DataFrame.String() missing truncation marker:\n%s", df.String())
	}
}
