package pset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatinHypercube_OneValuePerStratum(t *testing.T) {
	k1, err := New("k1", KindUniform, 0, 10)
	require.NoError(t, err)
	k2, err := New("k2", KindLogUniform, 1, 1e5)
	require.NoError(t, err)

	sets, err := LatinHypercube([]FreeParameter{k1, k2}, 10, newSource())
	require.NoError(t, err)
	require.Len(t, sets, 10)

	linear := map[int]int{}
	decades := map[int]int{}
	for _, s := range sets {
		assert.Equal(t, []string{"k1", "k2"}, s.Names())
		v1, _ := s.Get("k1")
		v2, _ := s.Get("k2")
		linear[int(math.Floor(v1.Value()))]++
		// Five decades over ten strata: two strata per decade.
		decades[int(math.Floor(log10(v2.Value())))]++
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, 1, linear[i], "stratum %d", i)
	}
	for d := 0; d < 5; d++ {
		assert.Equal(t, 2, decades[d], "decade %d", d)
	}
}

func TestLatinHypercube_RejectsEmptyCount(t *testing.T) {
	_, err := LatinHypercube(nil, 0, newSource())
	require.Error(t, err)
}

func TestRandomSets(t *testing.T) {
	k1, err := New("k1", KindUniform, 0, 1)
	require.NoError(t, err)
	k2, err := NewStaticList("k2", []float64{3, 4})
	require.NoError(t, err)

	sets, err := RandomSets([]FreeParameter{k1, k2}, 25, newSource())
	require.NoError(t, err)
	require.Len(t, sets, 25)
	for _, s := range sets {
		assert.Len(t, s.Values(), 2)
	}
}

func TestRandomSets_RejectsNonPositiveCount(t *testing.T) {
	k1, err := New("k1", KindUniform, 0, 1)
	require.NoError(t, err)

	for _, n := range []int{0, -1} {
		_, err := RandomSets([]FreeParameter{k1}, n, newSource())
		require.Error(t, err, "n=%d", n)
	}
}

func TestQuantile_NormalClipsAtZero(t *testing.T) {
	p, err := New("k", KindNormal, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.sampledAt(0).Value())
	assert.Equal(t, 0.0, p.sampledAt(0.25).Value())
	assert.Greater(t, p.sampledAt(0.75).Value(), 0.0)
}

func TestFold(t *testing.T) {
	testCases := []struct {
		x, lo, hi, expected float64
	}{
		{x: 5, lo: 0, hi: 10, expected: 5},
		{x: 11, lo: 0, hi: 10, expected: 9},
		{x: 25, lo: 0, hi: 10, expected: 5},
		{x: -1, lo: 0, hi: 10, expected: 1},
		{x: -21, lo: 0, hi: 10, expected: 1},
		{x: 3, lo: -2, hi: 2, expected: 1},
		{x: 7, lo: 3, hi: 3, expected: 3},
		{x: math.Inf(1), lo: 0, hi: 1, expected: 1},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, fold(tc.x, tc.lo, tc.hi), "fold(%g, %g, %g)", tc.x, tc.lo, tc.hi)
	}
}

func TestLog10_ExactDecades(t *testing.T) {
	for exp := -6; exp <= 6; exp++ {
		assert.Equal(t, float64(exp), log10(math.Pow(10, float64(exp))))
	}
}
