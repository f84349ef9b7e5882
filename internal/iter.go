// Package internal holds iterator helpers shared by the umips packages.
package internal

import (
	"cmp"
	"iter"
	"slices"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// IterSeq2Sorted yields the pairs of seq ordered by key.
func IterSeq2Sorted[K cmp.Ordered, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		type pair struct {
			k K
			v V
		}
		var pairs []pair
		for k, v := range seq {
			pairs = append(pairs, pair{k, v})
		}
		slices.SortStableFunc(pairs, func(a, b pair) int { return cmp.Compare(a.k, b.k) })
		for _, p := range pairs {
			if !yield(p.k, p.v) {
				return
			}
		}
	}
}
