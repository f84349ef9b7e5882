package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	got := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, got)
}

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	var keys []string
	for k := range IterSeq2Sorted(maps.All(map[string]int{"z": 1, "m": 2, "a": 3})) {
		keys = append(keys, k)
	}
	assert.Equal([]string{"a", "m", "z"}, keys)
}
