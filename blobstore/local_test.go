package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqmap/internal/fs"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()
	data := []byte("ACGTACGTACGTNNNNACGT")

	w, err := store.Create(ctx, "refs/chr1.snap")
	require.NoError(t, err)
	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	require.NoError(t, store.Put(ctx, "refs/chr2.snap", []byte("TTTT")))
	require.NoError(t, store.Put(ctx, "manifest.json", []byte("{}")))

	blob, err := store.Open(ctx, "refs/chr1.snap")
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 4)
	n, err = blob.ReadAt(ctx, buf, 12)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "NNNN", string(buf))

	n, err = blob.ReadAt(ctx, make([]byte, 8), 16)
	assert.Equal(t, 4, n)
	assert.Equal(t, io.EOF, err)

	rc, err := blob.ReadRange(ctx, 4, 8)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "ACGTACGT", string(part))

	all, err := ReadAll(ctx, store, "refs/chr2.snap")
	require.NoError(t, err)
	assert.Equal(t, "TTTT", string(all))

	names, err := store.List(ctx, "refs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"refs/chr1.snap", "refs/chr2.snap"}, names)

	require.NoError(t, store.Delete(ctx, "refs/chr2.snap"))
	require.NoError(t, store.Delete(ctx, "refs/chr2.snap"))
	_, err = store.Open(ctx, "refs/chr2.snap")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"manifest.json", "refs/chr1.snap"}, names)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	testStore(t, NewLocalStore(dir))

	_, err := os.Stat(filepath.Join(dir, "refs", "chr1.snap"))
	assert.NoError(t, err)
}

func TestLocalStore_IncompleteWriteIsInvisible(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	w, err := store.Create(ctx, "partial.snap")
	require.NoError(t, err)
	_, err = w.Write([]byte("ACGT"))
	require.NoError(t, err)

	_, err = store.Open(ctx, "partial.snap")
	assert.ErrorIs(t, err, ErrNotFound)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	assert.Error(t, w.Close())
}

func TestLocalStore_Mappable(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a", []byte("ACGT")))

	b, err := store.Open(ctx, "a")
	require.NoError(t, err)
	m, ok := b.(Mappable)
	require.True(t, ok)
	data, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(data))

	require.NoError(t, b.Close())
	_, err = m.Bytes()
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	for name, store := range map[string]BlobStore{
		"memory": NewMemoryStore(),
		"local":  NewLocalStore(t.TempDir()),
	} {
		t.Run(name, func(t *testing.T) {
			w, err := store.Create(ctx, "aborted.snap")
			require.NoError(t, err)
			_, err = w.Write([]byte("ACGT"))
			require.NoError(t, err)
			require.NoError(t, Discard(w))

			_, err = store.Open(ctx, "aborted.snap")
			assert.ErrorIs(t, err, ErrNotFound)
			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestLocalStore_WriteFaults(t *testing.T) {
	ctx := context.Background()
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("short.snap", fs.Fault{FailAfterBytes: 4})
	ffs.AddRule("nosync.snap", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.AddRule("locked.snap", fs.Fault{FailAfterBytes: -1, FailOnRename: true, Err: os.ErrPermission})
	store := &LocalStore{root: t.TempDir(), fs: ffs}

	err := store.Put(ctx, "short.snap", []byte("ACGTACGT"))
	assert.ErrorIs(t, err, fs.ErrInjected)

	err = store.Put(ctx, "nosync.snap", []byte("ACGT"))
	assert.ErrorIs(t, err, fs.ErrInjected)

	err = store.Put(ctx, "locked.snap", []byte("ACGT"))
	assert.ErrorIs(t, err, os.ErrPermission)

	// Failed writes leave neither the blob nor its temporary file behind.
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
	entries, err := os.ReadDir(store.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Len(t, ffs.Removed, 3)

	require.NoError(t, store.Put(ctx, "ok.snap", []byte("ACGT")))
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.snap"}, names)
}
