package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptedWraps(t *testing.T) {
	s := NewScripted(0.1, 0.2, 0.3)
	got := []float64{s.Float64(), s.Float64(), s.Float64(), s.Float64()}
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.1}, got)
	assert.Equal(t, 1, s.Drawn())
}

func TestScriptedEmpty(t *testing.T) {
	var s Scripted
	assert.Equal(t, 0.0, s.Float64())
}

func TestSeededSourceIsRepeatable(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 16; i++ {
		va, vb := a.Float64(), b.Float64()
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 0.0)
		assert.Less(t, va, 1.0)
	}
}
