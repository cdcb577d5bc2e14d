package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatches(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e"}

	got := Batches(texts, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, got)

	assert.Equal(t, [][]string{texts}, Batches(texts, 0))
	assert.Empty(t, Batches(nil, 3))
}

func TestCheckBatch(t *testing.T) {
	assert.NoError(t, CheckBatch([]string{"x", "y"}, [][]float32{{1}, {2}}))
	assert.Error(t, CheckBatch([]string{"x", "y"}, [][]float32{{1}}))
	assert.Error(t, CheckBatch([]string{"x"}, [][]float32{nil}))
}
