//go:generate go run go.uber.org/mock/mockgen -source=token.go -destination=../mocks/mock_token_repository.go -package=mocks
package repositories

import (
	"chat-client/domain"
	"chat-client/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var tokenKey = []byte("auth:token")

type ITokenRepository interface {
	Save(token StoredToken) error
	Load() (StoredToken, error)
	Delete() error
}

// StoredToken is the token kept between two runs of the client, with the user it was issued to.
type StoredToken struct {
	Token   string
	User    domain.User
	SavedAt time.Time
}

type TokenRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewTokenRepository(db *badger.DB, log *slog.Logger) *TokenRepository {
	return &TokenRepository{db: db, log: log}
}

// Save replaces the stored token.
func (r TokenRepository) Save(token StoredToken) error {
	record, err := structpb.NewStruct(map[string]any{
		"token":    token.Token,
		"user_id":  token.User.ID.String(),
		"username": token.User.Username,
		"email":    token.User.Email,
		"saved_at": token.SavedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("build token record: %w", err)
	}
	data, err := proto.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tokenKey, data)
	})
}

// Load returns ErrNoStoredToken when nobody is logged in.
func (r TokenRepository) Load() (StoredToken, error) {
	var record structpb.Struct
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return proto.Unmarshal(val, &record)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return StoredToken{}, errors.ErrNoStoredToken
	}
	if err != nil {
		return StoredToken{}, err
	}
	return r.toStoredToken(&record), nil
}

func (r TokenRepository) Delete() error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tokenKey)
	})
}

func (r TokenRepository) toStoredToken(record *structpb.Struct) StoredToken {
	fields := record.GetFields()
	str := func(name string) string { return fields[name].GetStringValue() }

	userID, err := uuid.Parse(str("user_id"))
	if err != nil {
		r.log.Debug("Stored token without user id", "error", err)
	}
	savedAt, err := time.Parse(time.RFC3339Nano, str("saved_at"))
	if err != nil {
		r.log.Debug("Stored token without date", "error", err)
	}
	return StoredToken{
		Token:   str("token"),
		User:    domain.User{ID: userID, Username: str("username"), Email: str("email")},
		SavedAt: savedAt,
	}
}
