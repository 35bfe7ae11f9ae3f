// Package internal holds helpers shared by the μVM packages.
package internal

import (
	"iter"
)

// Concat2 concatenates key/value iterators into a single iterator sequence.
// Keys are not deduplicated; later sequences win when collected into a map.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}
