package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/planfsa/pkg/adapters/file"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Files(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"Default", "", []string{"README", "pfile01", "pfile02", "pfile03-broken"}},
		{"Prefix", "pfile", []string{"pfile01", "pfile02", "pfile03-broken"}},
		{"Anchored At Start", "file", nil},
		{"Alternation", "pfile01|pfile02", []string{"pfile01", "pfile02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := file.NewSource("testdata/plans", tt.filter)
			require.NoError(t, err)

			got, err := src.Files()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_ReadPlans(t *testing.T) {
	src, err := file.NewSource("testdata/plans", "pfile")
	require.NoError(t, err)

	plans, err := src.ReadPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2, "broken plan is skipped")

	assert.Equal(t, []string{"load", "drive", "unload"}, plans[0].Names())
	assert.Equal(t, domain.Action{Name: "drive", Args: []string{"t2", "p3", "p1"}}, plans[1][1])
}

func TestSource_Errors(t *testing.T) {
	t.Run("Invalid Filter", func(t *testing.T) {
		_, err := file.NewSource("testdata/plans", "pfile(")
		assert.Error(t, err)
	})

	t.Run("Missing Directory", func(t *testing.T) {
		src, err := file.NewSource(filepath.Join(t.TempDir(), "missing"), "")
		require.NoError(t, err)
		_, err = src.ReadPlans(context.Background())
		assert.Error(t, err)
	})

	t.Run("Only Malformed Plans", func(t *testing.T) {
		src, err := file.NewSource("testdata/plans", "pfile03")
		require.NoError(t, err)
		_, err = src.ReadPlans(context.Background())
		assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
	})

	t.Run("Subdirectories Ignored", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "pnested"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "p1"), []byte("(a x)\n"), 0o644))

		src, err := file.NewSource(dir, "p")
		require.NoError(t, err)
		plans, err := src.ReadPlans(context.Background())
		require.NoError(t, err)
		assert.Len(t, plans, 1)
	})
}
