package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/resonant/internal/core"
)

func TestLoad_MissingFileGeneratesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")

	s, created, err := Load(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, Default(), s)

	// The default was persisted, so a second load reads it back.
	s2, created2, err := Load(path)
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, s, s2)
}

func TestLoad_NestedPathCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "seed.json")
	_, created, err := Load(path)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, _, err := Load(path)
	assert.ErrorIs(t, err, core.ErrRecordCorrupt)
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_RatioMismatch(t *testing.T) {
	s := Default()
	s.RatioConstant = 1.5
	assert.ErrorIs(t, s.Validate(), core.ErrRatioMismatch)

	// Within tolerance passes.
	s.RatioConstant = core.Phi + core.RatioTolerance/2
	assert.NoError(t, s.Validate())
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	s := Default()
	s.RatioConstant = 2
	s.ModeCount = 0
	s.GrowthParams.MaxIterations = -1

	err := s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRatioMismatch)
	assert.ErrorIs(t, err, core.ErrModeCountInvalid)
	assert.ErrorIs(t, err, core.ErrGrowthParamInvalid)
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	s := Default()
	s.GrowthParams.MaxIterations = 21

	require.NoError(t, Write(path, s))
	got, created, err := Load(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s, got)
}
