package progress_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/engpractice/internal/progress"
	"github.com/abhisek/engpractice/internal/store"
)

func TestTrackerPersistsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")
	ctx := context.Background()

	s, err := store.Open(path)
	require.NoError(t, err)

	tr, err := progress.Open(ctx, s.BlobRepo())
	require.NoError(t, err)
	_, err = tr.UpdateProgress(ctx, progress.Speaking, 64)
	require.NoError(t, err)
	_, err = tr.CompleteActivity(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	reopened, err := progress.Open(ctx, s.BlobRepo())
	require.NoError(t, err)
	got := reopened.State()
	require.Equal(t, 64, got.Skills.Speaking)
	require.Equal(t, 1, got.TotalCompleted)
	require.Equal(t, 16, got.OverallProgress)
	require.Equal(t, 1, got.Achievements)
}
