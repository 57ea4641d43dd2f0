package repositories

import (
	"chat-client/domain"
	"chat-client/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T, dir string) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	return db
}

func TestTokenRepository_SaveAndLoad(t *testing.T) {
	req := require.New(t)
	db := openDB(t, t.TempDir())
	defer db.Close()
	repository := NewTokenRepository(db, logs.GetLoggerFromLevel(slog.LevelDebug))

	stored := StoredToken{
		Token:   "a.b.c",
		User:    domain.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"},
		SavedAt: time.Now().UTC(),
	}
	req.NoError(repository.Save(stored))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Equal(stored.Token, loaded.Token)
	req.Equal(stored.User, loaded.User)
	req.True(stored.SavedAt.Equal(loaded.SavedAt))
}

func TestTokenRepository_SaveReplaces(t *testing.T) {
	req := require.New(t)
	db := openDB(t, t.TempDir())
	defer db.Close()
	repository := NewTokenRepository(db, logs.GetLoggerFromLevel(slog.LevelDebug))

	req.NoError(repository.Save(StoredToken{Token: "first", User: domain.User{Username: "bob"}}))
	req.NoError(repository.Save(StoredToken{Token: "second", User: domain.User{Username: "carol"}}))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Equal("second", loaded.Token)
	req.Equal("carol", loaded.User.Username)
}

func TestTokenRepository_Empty(t *testing.T) {
	req := require.New(t)
	db := openDB(t, t.TempDir())
	defer db.Close()
	repository := NewTokenRepository(db, logs.GetLoggerFromLevel(slog.LevelDebug))

	_, err := repository.Load()
	req.ErrorIs(err, errors.ErrNoStoredToken)

	// Deleting nothing is fine
	req.NoError(repository.Delete())
}

func TestTokenRepository_DeleteAndSurviveRestart(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a token saved by a previous run
	db := openDB(t, dir)
	req.NoError(NewTokenRepository(db, log).Save(StoredToken{Token: "kept", User: domain.User{Username: "bob"}}))
	req.NoError(db.Close())

	// Then the next run finds it
	db = openDB(t, dir)
	defer db.Close()
	repository := NewTokenRepository(db, log)
	loaded, err := repository.Load()
	req.NoError(err)
	req.Equal("kept", loaded.Token)

	// And logging out forgets it
	req.NoError(repository.Delete())
	_, err = repository.Load()
	req.ErrorIs(err, errors.ErrNoStoredToken)
}
