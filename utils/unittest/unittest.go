package unittest

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireReturnsBefore requires that the given function returns before the
// duration expires.
func RequireReturnsBefore(t testing.TB, f func(), duration time.Duration) {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		require.Fail(t, "function did not return in time")
	case <-done:
		return
	}
}

// AssertErrSubstringMatch asserts that `expected` is a substring of `actual`
// or the other way around. Use it only where errors.Is cannot be, for
// example on errors decoded from an HTTP response.
func AssertErrSubstringMatch(t testing.TB, expected, actual error) {
	require.NotNil(t, expected)
	require.NotNil(t, actual)
	assert.True(
		t,
		strings.Contains(actual.Error(), expected.Error()) || strings.Contains(expected.Error(), actual.Error()),
		"expected error: '%s', got: '%s'", expected.Error(), actual.Error(),
	)
}

func TempDir(t testing.TB) string {
	dir, err := os.MkdirTemp("", "randcast-testing-temp-")
	require.NoError(t, err)
	return dir
}

func RunWithTempDir(t testing.TB, f func(string)) {
	dbDir := TempDir(t)
	defer os.RemoveAll(dbDir)
	f(dbDir)
}

func BadgerDB(t testing.TB, dir string) *badger.DB {
	opts := badger.
		DefaultOptions(dir).
		WithKeepL0InMemory(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	return db
}

func RunWithBadgerDB(t testing.TB, f func(*badger.DB)) {
	RunWithTempDir(t, func(dir string) {
		db := BadgerDB(t, dir)
		defer db.Close()
		f(db)
	})
}

func PebbleDB(t testing.TB, dir string) *pebble.DB {
	db, err := pebble.Open(dir, &pebble.Options{})
	require.NoError(t, err)
	return db
}

func RunWithPebbleDB(t testing.TB, f func(*pebble.DB)) {
	RunWithTempDir(t, func(dir string) {
		db := PebbleDB(t, dir)
		defer db.Close()
		f(db)
	})
}
