package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRunMode(t *testing.T) {
	for _, name := range []string{"verify-seed", "deploy", "test-mode", "ingest", "growth", "consolidate"} {
		mode, err := ParseRunMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, mode.String())
	}

	_, err := ParseRunMode("warp")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseGrowthMode(t *testing.T) {
	m, err := ParseGrowthMode("phi-decay")
	require.NoError(t, err)
	assert.Equal(t, GrowthPhiDecay, m)

	m, err = ParseGrowthMode("static")
	require.NoError(t, err)
	assert.Equal(t, GrowthStatic, m)

	_, err = ParseGrowthMode("exponential")
	assert.ErrorIs(t, err, ErrUnknownGrowthMode)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("frequency")
	require.NoError(t, err)
	assert.Equal(t, StrategyFrequency, s)

	s, err = ParseStrategy("token-hash")
	require.NoError(t, err)
	assert.Equal(t, StrategyTokenHash, s)

	_, err = ParseStrategy("wavelet")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestEigenvalue_JSON(t *testing.T) {
	real1 := Eigenvalue(complex(2.5, 0))
	data, err := real1.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "2.5", string(data))

	cplx := Eigenvalue(complex(1, -2))
	data, err = cplx.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[1,-2]", string(data))

	var back Eigenvalue
	require.NoError(t, back.UnmarshalJSON([]byte("2.5")))
	assert.Equal(t, real1, back)
	require.NoError(t, back.UnmarshalJSON([]byte("[1,-2]")))
	assert.Equal(t, cplx, back)

	assert.Error(t, back.UnmarshalJSON([]byte(`"nope"`)))
}
