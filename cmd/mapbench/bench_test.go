package main

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/bucketed"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/hashmap"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/linear"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/treemap"
)

func TestRandomKeysArePermutation(t *testing.T) {
	keys := randomKeys(100, 7)
	sorted := slices.Sorted(slices.Values(keys))
	for i, k := range sorted {
		if k != i {
			t.Fatalf("sorted keys[%d] = %d, want %d", i, k, i)
		}
	}
	if !slices.Equal(keys, randomKeys(100, 7)) {
		t.Error("same seed produced different orders")
	}
}

func TestExerciseEveryContainer(t *testing.T) {
	keys := randomKeys(501, 3)
	containers := map[string]container{
		"linear":   linear.New[int, int](),
		"bucketed": bucketed.New[int, int](8),
		"hashmap":  hashmap.New[int, int](1),
		"treemap":  treemap.New[int, int](),
	}
	for name, m := range containers {
		t.Run(name, func(t *testing.T) {
			r := exercise(name, m, keys)
			if r.missed != 0 {
				t.Errorf("missed = %d, want 0", r.missed)
			}
			if r.left != 250 {
				t.Errorf("left = %d, want 250", r.left)
			}
		})
	}
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, []result{{name: "treemap", n: 3, left: 1, details: "height=1"}})
	out := buf.String()
	if !strings.Contains(out, "treemap") || !strings.Contains(out, "height=1") {
		t.Errorf("printResults() = %q", out)
	}
}
