package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// tokenKey is the fixed key of the token slot.
var tokenKey = []byte("auth_token")

// BadgerStore keeps the token in an embedded Badger database.
//
// Badger holds a directory lock, so only one process may have the
// database open at a time.
type BadgerStore struct {
	db *badger.DB
}

// DefaultBadgerDir returns ~/.shiptrack/session.db.
func DefaultBadgerDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".shiptrack", "session.db")
}

// OpenBadgerStore opens (or creates) the database in dir.
func OpenBadgerStore(dir string, log logger.Logger) (*BadgerStore, error) {
	if dir == "" {
		dir = DefaultBadgerDir()
	}
	if log == nil {
		log = logger.Default()
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(&badgerLogger{logger: log.With("component", "badger")}).
		WithSyncWrites(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Load() (string, error) {
	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		token = string(value)
		return nil
	})
	return token, err
}

func (s *BadgerStore) Save(token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tokenKey, []byte(token))
	})
}

func (s *BadgerStore) Delete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tokenKey)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts Logger to Badger's Logger interface.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
