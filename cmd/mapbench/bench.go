package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"
)

// container is the part of the map API shared by every map in pkg/maps.
type container interface {
	Put(key, value int) (int, bool)
	Get(key int) (int, bool)
	Remove(key int) (int, bool)
	Len() int
}

type result struct {
	name    string
	n       int
	put     time.Duration
	get     time.Duration
	remove  time.Duration
	missed  int
	left    int
	details string
}

// randomKeys returns n distinct keys in random order.
func randomKeys(n int, seed uint64) []int {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Perm(n)
}

// exercise puts every key, reads every key back and removes every other one.
func exercise(name string, m container, keys []int) result {
	res := result{name: name, n: len(keys)}

	start := time.Now()
	for _, k := range keys {
		m.Put(k, k*2)
	}
	res.put = time.Since(start)

	start = time.Now()
	for _, k := range keys {
		if v, ok := m.Get(k); !ok || v != k*2 {
			res.missed++
		}
	}
	res.get = time.Since(start)

	start = time.Now()
	for i := 0; i < len(keys); i += 2 {
		m.Remove(keys[i])
	}
	res.remove = time.Since(start)
	res.left = m.Len()
	return res
}

func printResults(w io.Writer, results []result) {
	fmt.Fprintf(w, "%-10s %8s %12s %12s %12s %6s %8s  %s\n",
		"map", "n", "put", "get", "remove", "miss", "left", "shape")
	for _, r := range results {
		fmt.Fprintf(w, "%-10s %8d %12s %12s %12s %6d %8d  %s\n",
			r.name, r.n, r.put, r.get, r.remove, r.missed, r.left, r.details)
	}
}
