package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/halcyondata/paperdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProgress(processed int) *core.BuildProgress {
	return &core.BuildProgress{
		ProcessedCount: processed,
		Fingerprint:    core.Fingerprint{Count: 100, Digest: "abcdef0123456789"},
		Snapshot:       []byte{1, 2, 3, 4, 5},
		UpdatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	store := NewCheckpointStore()
	destination := filepath.Join(t.TempDir(), "index.bin")

	saved := testProgress(50)
	require.NoError(t, store.Save(destination, saved))

	loaded, err := store.Load(destination)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.ProcessedCount, loaded.ProcessedCount)
	assert.Equal(t, saved.Fingerprint, loaded.Fingerprint)
	assert.Equal(t, saved.Snapshot, loaded.Snapshot)
	assert.True(t, saved.UpdatedAt.Equal(loaded.UpdatedAt))
}

func TestCheckpointAbsent(t *testing.T) {
	store := NewCheckpointStore()

	loaded, err := store.Load(filepath.Join(t.TempDir(), "never-built.bin"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCheckpointCorruptTreatedAsAbsent(t *testing.T) {
	store := NewCheckpointStore()
	destination := filepath.Join(t.TempDir(), "index.bin")

	require.NoError(t, store.Save(destination, testProgress(10)))

	path := store.Path(destination)

	t.Run("garbage bytes", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("not a checkpoint"), 0644))
		loaded, err := store.Load(destination)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("truncated payload", func(t *testing.T) {
		require.NoError(t, store.Save(destination, testProgress(10)))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0644))

		loaded, err := store.Load(destination)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})
}

func TestCheckpointSaveOverwrites(t *testing.T) {
	store := NewCheckpointStore()
	destination := filepath.Join(t.TempDir(), "index.bin")

	require.NoError(t, store.Save(destination, testProgress(10)))
	require.NoError(t, store.Save(destination, testProgress(20)))

	loaded, err := store.Load(destination)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 20, loaded.ProcessedCount)
}

func TestCheckpointDeleteIdempotent(t *testing.T) {
	store := NewCheckpointStore()
	destination := filepath.Join(t.TempDir(), "index.bin")

	require.NoError(t, store.Save(destination, testProgress(10)))
	require.NoError(t, store.Delete(destination))

	loaded, err := store.Load(destination)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting an already-deleted checkpoint is not an error
	require.NoError(t, store.Delete(destination))
	require.NoError(t, store.Delete(filepath.Join(t.TempDir(), "never-existed.bin")))
}

func TestCheckpointPathsDoNotCollide(t *testing.T) {
	store := NewCheckpointStore()
	dir := t.TempDir()

	destA := filepath.Join(dir, "index-a.bin")
	destB := filepath.Join(dir, "index-b.bin")

	require.NoError(t, store.Save(destA, testProgress(11)))
	require.NoError(t, store.Save(destB, testProgress(22)))

	assert.NotEqual(t, store.Path(destA), store.Path(destB))

	loadedA, err := store.Load(destA)
	require.NoError(t, err)
	require.NotNil(t, loadedA)
	assert.Equal(t, 11, loadedA.ProcessedCount)

	loadedB, err := store.Load(destB)
	require.NoError(t, err)
	require.NotNil(t, loadedB)
	assert.Equal(t, 22, loadedB.ProcessedCount)

	// Deleting one leaves the other intact
	require.NoError(t, store.Delete(destA))
	loadedB, err = store.Load(destB)
	require.NoError(t, err)
	assert.NotNil(t, loadedB)
}

func TestCheckpointClean(t *testing.T) {
	store := NewCheckpointStore()
	destination := filepath.Join(t.TempDir(), "index.bin")

	require.NoError(t, store.Save(destination, testProgress(10)))
	checkpointDir := filepath.Dir(store.Path(destination))

	require.NoError(t, store.Clean(destination))

	_, err := os.Stat(checkpointDir)
	assert.True(t, os.IsNotExist(err), "empty checkpoint directory should be removed")

	// Clean with no checkpoint present is a no-op
	require.NoError(t, store.Clean(destination))
}

func TestCheckpointPathLayout(t *testing.T) {
	store := NewCheckpointStore()
	destination := filepath.Join("data", "indexes", "papers.bin")

	path := store.Path(destination)
	assert.Equal(t, filepath.Join("data", "indexes", "checkpoints"), filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "vector_store_checkpoint.")
	assert.True(t, filepath.IsAbs(path) == filepath.IsAbs(destination))
}
