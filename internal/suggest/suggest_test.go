package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/suplanner-data/internal/suggest"
)

func TestClosest_Typo(t *testing.T) {
	ix := suggest.NewIndex([]string{"gaia", "erebyss", "meraxis", "tartarith"})

	got, ok := ix.Closest("erebys")
	assert.True(t, ok)
	assert.Equal(t, "erebyss", got)
}

func TestClosest_TooFar(t *testing.T) {
	ix := suggest.NewIndex([]string{"gaia"})
	_, ok := ix.Closest("tartarith")
	assert.False(t, ok)
}

func TestClosest_EmptyTargetOrIndex(t *testing.T) {
	var nilIndex *suggest.Index
	_, ok := nilIndex.Closest("gaia")
	assert.False(t, ok)

	_, ok = suggest.NewIndex(nil).Closest("gaia")
	assert.False(t, ok)

	_, ok = suggest.NewIndex([]string{"gaia"}).Closest("")
	assert.False(t, ok)
}

func TestClosest_TieBreaksLexically(t *testing.T) {
	ix := suggest.NewIndex([]string{"bat", "cat"})
	got, ok := ix.Closest("aat")
	assert.True(t, ok)
	assert.Equal(t, "bat", got)
}

func TestFromMap(t *testing.T) {
	ix := suggest.FromMap(map[string]int{"pack leader": 1, "gravedigger": 2})
	got, ok := ix.Closest("pack leeder")
	assert.True(t, ok)
	assert.Equal(t, "pack leader", got)
}

func TestClosest_ExactMemberAlwaysFound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,12}`), 1, 8).Draw(t, "keys")
		pick := rapid.SampledFrom(keys).Draw(t, "pick")
		got, ok := suggest.NewIndex(keys).Closest(pick)
		assert.True(t, ok)
		assert.Equal(t, pick, got)
	})
}
