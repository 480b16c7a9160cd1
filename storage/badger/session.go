package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/halcyondata/paperdex/core"
	"github.com/halcyondata/paperdex/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
type SessionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) (*SessionRepository, error) {
	idSeq, err := backend.GetSequence(sessionIDSeq)
	if err != nil {
		return nil, err
	}

	return &SessionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *SessionRepository) Close() error {
	return r.idSeq.Release()
}

// AddSession stores a research session, assigning its ID and creation time.
func (r *SessionRepository) AddSession(ctx context.Context, session *core.ResearchSession) (*core.ResearchSession, error) {
	if err := core.ValidateResearchSession(session); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		session.Id = core.ID(nextID)

		if session.CreatedAt.IsZero() {
			session.CreatedAt = time.Now().UTC()
		}

		key := makeSessionKey(session.Id)
		if err := tx.Set(key, storage.MarshalSession(session)); err != nil {
			return err
		}

		dateKey := makeSessionDateKey(session.CreatedAt, session.Id)
		if err := tx.Set(dateKey, storage.MarshalID(session.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return session, err
}

// ListSessions returns all sessions ordered by creation time, oldest first.
func (r *SessionRepository) ListSessions(ctx context.Context) ([]*core.ResearchSession, error) {
	var sessions []*core.ResearchSession

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			session, err := r.readSession(tx, id)
			if err != nil {
				return err
			}
			sessions = append(sessions, session)
		}
		return nil
	}, false)

	return sessions, err
}

// LastSession returns the most recently created session, or nil if none exist.
func (r *SessionRepository) LastSession(ctx context.Context) (*core.ResearchSession, error) {
	var session *core.ResearchSession

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(sessionDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the end of the date-index range; the first valid entry
		// in reverse order is the newest session.
		seek := append([]byte(sessionDatePrefix+":"), 0xFF, 0xFF, 0xFF, 0xFF,
			0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		iter.Seek(seek)
		if !iter.Valid() {
			return nil
		}

		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		session, err = r.readSession(tx, id)
		return err
	}, false)

	return session, err
}

// readSession loads a session by ID within a transaction.
func (r *SessionRepository) readSession(tx *badger.Txn, id core.ID) (*core.ResearchSession, error) {
	item, err := tx.Get(makeSessionKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var session *core.ResearchSession
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		session, unmarshalErr = storage.UnmarshalSession(val)
		return unmarshalErr
	})
	return session, err
}
