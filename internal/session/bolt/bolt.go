package bolt

import (
	"context"
	"time"

	bbolt "go.etcd.io/bbolt"

	"sitewatch/internal/domain"
	"sitewatch/internal/session"
)

var bucket = []byte("session")

// Store persists the session record in a local bbolt file. This is the
// default adapter: one file per install, survives restarts.
type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	b, err := session.EncodeUser(u)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(session.KeyUser), b)
	})
}

func (s *Store) LoadUser(ctx context.Context) (*domain.User, error) {
	var u *domain.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		u = session.DecodeUser(tx.Bucket(bucket).Get([]byte(session.KeyUser)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) SetAuthenticated(ctx context.Context, v bool) error {
	val := []byte("false")
	if v {
		val = []byte("true")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(session.KeyAuthenticated), val)
	})
}

func (s *Store) Authenticated(ctx context.Context) (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		ok = string(tx.Bucket(bucket).Get([]byte(session.KeyAuthenticated))) == "true"
		return nil
	})
	return ok, err
}

func (s *Store) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if err := b.Delete([]byte(session.KeyUser)); err != nil {
			return err
		}
		return b.Delete([]byte(session.KeyAuthenticated))
	})
}
