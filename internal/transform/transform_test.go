package transform

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/resonant/internal/core"
)

func newTestTransformer() *Transformer {
	return New(Config{Base: core.Phi, Modes: core.DefaultModeCount})
}

func TestFrequency_EmptyInput(t *testing.T) {
	tr := newTestTransformer()
	assert.Empty(t, tr.Frequency(nil))
	assert.Empty(t, tr.Frequency([]byte{}))
}

func TestFrequency_LengthCappedAtModes(t *testing.T) {
	tr := newTestTransformer()

	long := make([]byte, 100)
	for i := range long {
		long[i] = byte(i * 7)
	}
	require.Len(t, tr.Frequency(long), core.DefaultModeCount)

	// Shorter inputs yield one component per sample.
	require.Len(t, tr.Frequency([]byte{1, 2, 3, 4, 5}), 5)
}

func TestFrequency_DCComponent(t *testing.T) {
	tr := newTestTransformer()

	raw := []byte{10, 20, 30, 40}
	out := tr.Frequency(raw)
	require.NotEmpty(t, out)

	// Bin zero is the unscaled magnitude of the byte sum (Base^0 = 1).
	assert.InDelta(t, 100.0, out[0], 1e-9)
}

func TestFrequency_Deterministic(t *testing.T) {
	tr := newTestTransformer()
	raw := []byte("the crystal lattice hums at phi")
	assert.Equal(t, tr.Frequency(raw), tr.Frequency(raw))
}

func TestTokenHash_EmptyInput(t *testing.T) {
	tr := newTestTransformer()
	assert.Empty(t, tr.TokenHash(""))
	assert.Empty(t, tr.TokenHash("   \t\n  "))
}

func TestTokenHash_OneComponentPerToken(t *testing.T) {
	tr := newTestTransformer()

	out := tr.TokenHash("alpha beta gamma delta")
	require.Len(t, out, 4)

	for _, v := range out {
		assert.InDelta(t, TokenScale, cmplx.Abs(v), 1e-9)
	}
}

func TestTokenHash_StableAcrossCalls(t *testing.T) {
	tr := newTestTransformer()
	text := "same tokens same phases"
	assert.Equal(t, tr.TokenHash(text), tr.TokenHash(text))
}

func TestTokenHash_DistinctTokensDistinctPhases(t *testing.T) {
	tr := newTestTransformer()
	out := tr.TokenHash("alpha beta")
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0], out[1])
}

func TestProject_FoldsOntoBasis(t *testing.T) {
	vec := []complex128{1, 2, 3, 4, 5}
	out := Project(vec, 2)
	require.Len(t, out, 2)
	assert.Equal(t, complex128(1+3+5), out[0])
	assert.Equal(t, complex128(2+4), out[1])
}

func TestProject_Degenerate(t *testing.T) {
	assert.Nil(t, Project(nil, 4))
	assert.Nil(t, Project([]complex128{1}, 0))
}
