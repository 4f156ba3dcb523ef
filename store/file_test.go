package store_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/store"
)

func TestFile(t *testing.T) {
	f, err := store.OpenFile(filepath.Join(t.TempDir(), "redirects.json"))
	require.Nil(t, err)

	testStore(t, f)
}

func TestOpenFileCreatesAndReloads(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "redirects.json")
	f, err := store.OpenFile(path)
	require.Nil(t, err)

	// Act
	created, err := f.Create(context.Background(), "go", "https://go.dev/{search?q=$1}", husserl)
	require.Nil(t, err)

	// Assert
	b, err := os.ReadFile(path)
	require.Nil(t, err)

	var contents map[string][]map[string]any
	require.Nil(t, json.Unmarshal(b, &contents))
	require.Len(t, contents["redirects"], 1)
	require.Equal(t, "go", contents["redirects"][0]["alias"])
	require.EqualValues(t, created.ID, contents["redirects"][0]["id"])

	reopened, err := store.OpenFile(path)
	require.Nil(t, err)
	actual, err := reopened.Get(context.Background(), created.PublicRef)
	require.Nil(t, err)
	require.Equal(t, created.ID, actual.ID)
	require.Equal(t, created.Destination, actual.Destination)
	require.True(t, created.CreatedOn.Equal(actual.CreatedOn))
}

func TestOpenFileBadFormat(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "redirects.json")
	require.Nil(t, os.WriteFile(path, []byte("{not json"), 0o600))

	// Act
	_, err := store.OpenFile(path)

	// Assert
	require.ErrorIs(t, err, golink.ErrBadFormat)
}

func TestOpenFileMissingDir(t *testing.T) {
	_, err := store.OpenFile(filepath.Join(t.TempDir(), "missing", "redirects.json"))

	require.ErrorIs(t, err, golink.ErrUnexpected)
}

func TestFileWriteFailureLeavesRecordsUnchanged(t *testing.T) {
	for _, tc := range []struct {
		name   string
		fail   func(t *testing.T, dir, path string)
		repair func(t *testing.T, dir, path string)
	}{
		{
			"Read-Only-Dir",
			func(t *testing.T, dir, _ string) {
				if os.Geteuid() == 0 {
					t.Skip("root ignores directory permissions")
				}
				require.Nil(t, os.Chmod(dir, 0o500))
				t.Cleanup(func() { os.Chmod(dir, 0o700) })
			},
			func(t *testing.T, dir, _ string) { require.Nil(t, os.Chmod(dir, 0o700)) },
		},
		{
			"Path-Is-Dir",
			func(t *testing.T, _, path string) {
				require.Nil(t, os.Remove(path))
				require.Nil(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o700))
			},
			func(t *testing.T, _, path string) { require.Nil(t, os.RemoveAll(path)) },
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			dir := filepath.Join(t.TempDir(), "data")
			require.Nil(t, os.Mkdir(dir, 0o700))
			path := filepath.Join(dir, "redirects.json")

			f, err := store.OpenFile(path)
			require.Nil(t, err)
			kept, err := f.Create(ctx, "keep", "https://keep.example.com", husserl)
			require.Nil(t, err)

			tc.fail(t, dir, path)

			// Act
			created, err := f.Create(ctx, "go", "https://go.dev", husserl)

			// Assert
			require.ErrorIs(t, err, golink.ErrUnexpected)
			require.Equal(t, store.Record{}, created)
			_, err = f.Get(ctx, "go")
			require.ErrorIs(t, err, golink.ErrNotFound)

			// Act
			updated, err := f.Update(ctx, kept.PublicRef, "https://changed.example.com", husserl)

			// Assert
			require.ErrorIs(t, err, golink.ErrUnexpected)
			require.Equal(t, store.Record{}, updated)

			// Act
			deleted, err := f.Delete(ctx, kept.PublicRef)

			// Assert
			require.ErrorIs(t, err, golink.ErrUnexpected)
			require.Equal(t, store.Record{}, deleted)

			actual, err := f.Get(ctx, kept.PublicRef)
			require.Nil(t, err)
			require.Equal(t, kept.Destination, actual.Destination)

			list, err := f.List(ctx, store.Page{})
			require.Nil(t, err)
			require.EqualValues(t, 1, list.Total)

			// Act
			tc.repair(t, dir, path)
			retried, err := f.Create(ctx, "go", "https://go.dev", husserl)

			// Assert
			require.Nil(t, err)
			require.Equal(t, kept.ID+1, retried.ID)
		})
	}
}
