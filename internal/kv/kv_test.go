package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutGetRoundTrip(t *testing.T) {
	db := openTestDB(t)

	err := db.Update(func(tx *Tx) error {
		b, err := tx.Bucket("changes", "repo1")
		require.NoError(t, err)
		return b.Put([]byte("k"), []byte("v"))
	})
	require.NoError(t, err)

	err = db.View(func(tx *Tx) error {
		b, err := tx.Bucket("changes", "repo1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), b.Get([]byte("k")))
		return nil
	})
	require.NoError(t, err)
}

func TestMissingBucketReadsAsEmpty(t *testing.T) {
	db := openTestDB(t)

	err := db.View(func(tx *Tx) error {
		b, err := tx.Bucket("nonexistent")
		require.NoError(t, err)
		assert.Nil(t, b)
		return nil
	})
	require.NoError(t, err)
}

func TestPutNilValueDeletes(t *testing.T) {
	db := openTestDB(t)

	err := db.Update(func(tx *Tx) error {
		b, err := tx.Bucket("heads")
		require.NoError(t, err)
		require.NoError(t, b.Put([]byte("k"), []byte("v")))
		return b.Put([]byte("k"), nil)
	})
	require.NoError(t, err)

	err = db.View(func(tx *Tx) error {
		b, err := tx.Bucket("heads")
		require.NoError(t, err)
		assert.Nil(t, b.Get([]byte("k")))
		return nil
	})
	require.NoError(t, err)
}

func TestPrefixScanOrdering(t *testing.T) {
	db := openTestDB(t)

	err := db.Update(func(tx *Tx) error {
		b, err := tx.Bucket("lines")
		require.NoError(t, err)
		for _, k := range []string{"b", "a", "c", "ax"} {
			require.NoError(t, b.Put([]byte(k), []byte{1}))
		}
		return nil
	})
	require.NoError(t, err)

	var got []string
	err = db.View(func(tx *Tx) error {
		b, err := tx.Bucket("lines")
		require.NoError(t, err)
		b.PrefixScan([]byte("a"), func(k, v []byte) bool {
			got = append(got, string(k))
			return true
		})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ax"}, got)
}

func TestReadOnlyPutFails(t *testing.T) {
	db := openTestDB(t)

	err := db.Update(func(tx *Tx) error {
		_, err := tx.Bucket("x")
		return err
	})
	require.NoError(t, err)

	err = db.View(func(tx *Tx) error {
		b, err := tx.Bucket("x")
		require.NoError(t, err)
		return b.Put([]byte("k"), []byte("v"))
	})
	assert.ErrorIs(t, err, ErrReadOnly)
}
