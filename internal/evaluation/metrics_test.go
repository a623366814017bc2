package evaluation

import (
	"math"
	"reflect"
	"testing"
)

func TestSafeRound(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"nan", math.NaN(), 0},
		{"pos inf", math.Inf(1), 0},
		{"neg inf", math.Inf(-1), 0},
		{"rounds to four places", 0.123456, 0.1235},
		{"exact", 0.75, 0.75},
		{"one", 1.0, 1.0},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeRound(tt.in); got != tt.want {
				t.Errorf("SafeRound(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMetricsSummary(t *testing.T) {
	trueLabels := []string{"a", "a", "b", "b"}
	predLabels := []string{"a", "b", "b", "b"}
	labels := []string{"a", "b"}

	m := MetricsSummary(trueLabels, predLabels, labels)
	if m.Accuracy != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", m.Accuracy)
	}
	if m.Precision != 0.8333 {
		t.Errorf("precision = %v, want 0.8333", m.Precision)
	}
	if m.Recall != 0.75 {
		t.Errorf("recall = %v, want 0.75", m.Recall)
	}
	if m.F1 != 0.7333 {
		t.Errorf("f1 = %v, want 0.7333", m.F1)
	}
}

func TestMetricsSummaryPerfect(t *testing.T) {
	labels := []string{"a", "b"}
	m := MetricsSummary([]string{"a", "b"}, []string{"a", "b"}, labels)
	if m.Accuracy != 1 || m.Precision != 1 || m.Recall != 1 || m.F1 != 1 {
		t.Errorf("metrics = %+v, want all 1", m)
	}
}

func TestMetricsSummaryZeroDivision(t *testing.T) {
	// Label c is allowed but never seen; its zero P/R/F1 must drag the
	// macro averages down without producing NaN.
	trueLabels := []string{"a", "a", "b", "b"}
	predLabels := []string{"a", "b", "b", "b"}
	labels := []string{"a", "b", "c"}

	m := MetricsSummary(trueLabels, predLabels, labels)
	if m.Precision != 0.5556 {
		t.Errorf("precision = %v, want 0.5556", m.Precision)
	}
	if m.Recall != 0.5 {
		t.Errorf("recall = %v, want 0.5", m.Recall)
	}
	if m.F1 != 0.4889 {
		t.Errorf("f1 = %v, want 0.4889", m.F1)
	}
}

func TestMetricsSummaryEmpty(t *testing.T) {
	m := MetricsSummary(nil, nil, nil)
	if m.Accuracy != 0 || m.Precision != 0 || m.Recall != 0 || m.F1 != 0 {
		t.Errorf("metrics = %+v, want all 0 for empty input", m)
	}
}

func TestPerIntentReport(t *testing.T) {
	trueLabels := []string{"a", "a", "b", "b"}
	predLabels := []string{"a", "b", "b", "b"}
	labels := []string{"a", "b", "c"}

	report := PerIntentReport(trueLabels, predLabels, labels)
	if len(report) != 3 {
		t.Fatalf("got %d entries, want 3", len(report))
	}

	a := report["a"]
	if a.Precision != 1 || a.Recall != 0.5 || a.F1 != 0.6667 || a.Support != 2 {
		t.Errorf("a = %+v, want P=1 R=0.5 F1=0.6667 support=2", a)
	}
	b := report["b"]
	if b.Precision != 0.6667 || b.Recall != 1 || b.F1 != 0.8 || b.Support != 2 {
		t.Errorf("b = %+v, want P=0.6667 R=1 F1=0.8 support=2", b)
	}
	c := report["c"]
	if c.Precision != 0 || c.Recall != 0 || c.F1 != 0 || c.Support != 0 {
		t.Errorf("c = %+v, want all zero", c)
	}
}

func TestBuildConfusion(t *testing.T) {
	trueLabels := []string{"a", "a", "b", "b"}
	predLabels := []string{"a", "b", "b", "b"}
	labels := []string{"a", "b"}

	c := BuildConfusion(trueLabels, predLabels, labels)
	if !reflect.DeepEqual(c.Labels, labels) {
		t.Errorf("labels = %v, want %v", c.Labels, labels)
	}
	want := [][]int{{1, 1}, {0, 2}}
	if !reflect.DeepEqual(c.Matrix, want) {
		t.Errorf("matrix = %v, want %v", c.Matrix, want)
	}
}

func TestLabelSet(t *testing.T) {
	got := labelSet(
		[]string{"b", "a", ""},
		[]string{"a", "unknown"},
		[]string{"c", "a"},
	)
	want := []string{"a", "b", "c", "unknown"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("labelSet = %v, want %v", got, want)
	}
}
