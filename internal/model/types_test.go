package model

import (
	"net/url"
	"testing"
)

func TestParameterSet_Encode(t *testing.T) {
	ps := ParameterSet{{Name: "w_title", Value: 5}, {Name: "k1", Value: 1.2}, {Name: "b", Value: 0.75}}

	v := url.Values{}
	ps.Encode(v)

	want := map[string]string{"w_title": "5", "k1": "1.2", "b": "0.75"}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}

	if got := ps.String(); got != "w_title=5, k1=1.2, b=0.75" {
		t.Errorf("String() = %q", got)
	}
}

func TestParameterSet_Get(t *testing.T) {
	ps := ParameterSet{{Name: "k1", Value: 2}}

	if v, ok := ps.Get("k1"); !ok || v != 2 {
		t.Errorf("Get(k1) = %v, %v", v, ok)
	}
	if _, ok := ps.Get("b"); ok {
		t.Error("Get(b) should not be found")
	}
}

func TestBestResult_Consider(t *testing.T) {
	first := EvaluationResult{Params: ParameterSet{{Name: "k1", Value: 1.2}}, Accuracy: 50}
	tie := EvaluationResult{Params: ParameterSet{{Name: "k1", Value: 1.5}}, Accuracy: 50}
	better := EvaluationResult{Params: ParameterSet{{Name: "k1", Value: 2}}, Accuracy: 60}

	var best BestResult
	best = best.Consider(0, first)
	if !best.Found || best.Index != 0 {
		t.Fatalf("first cell not tracked: %+v", best)
	}

	best = best.Consider(1, tie)
	if best.Index != 0 {
		t.Errorf("tie replaced best: index = %d, want 0", best.Index)
	}

	best = best.Consider(2, better)
	if best.Index != 2 || best.Accuracy != 60 {
		t.Errorf("better cell not tracked: %+v", best)
	}
}

func TestBestResult_ConsiderZeroAccuracy(t *testing.T) {
	var best BestResult
	best = best.Consider(0, EvaluationResult{Accuracy: 0})
	if !best.Found {
		t.Error("a zero-accuracy first cell must still be tracked")
	}
}
