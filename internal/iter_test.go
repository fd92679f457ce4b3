package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	var keys []string
	var values []int
	for key, value := range IterSeq2Sorted(map[string]int{"b": 2, "c": 3, "a": 1}) {
		keys = append(keys, key)
		values = append(values, value)
	}

	assert.Equal([]string{"a", "b", "c"}, keys)
	assert.Equal([]int{1, 2, 3}, values)
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := IterSeq2Sorted(map[string]string{"A": "1", "B": "2"})
	second := maps.All(map[string]string{"C": "3"})

	var keys []string
	for key := range IterSeq2Concat(first, second) {
		keys = append(keys, key)
	}
	assert.Equal([]string{"A", "B", "C"}, keys)

	// Early stop.
	count := 0
	for range IterSeq2Concat(first, second) {
		count++
		break
	}
	assert.Equal(1, count)
}
