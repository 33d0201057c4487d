package db

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("not found")

type BoltDB struct {
	db *bolt.DB
}

// NewBoltDB opens the database at dbPath, creating the file and buckets if needed.
func NewBoltDB(dbPath string) (*BoltDB, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "opening bolt db %s", dbPath)
	}
	err = setupAnalysesBucket(db)
	if err != nil {
		_ = db.Close()
		return nil, pkgerrors.Wrap(err, "creating analyses bucket")
	}
	return &BoltDB{db}, nil
}

func (db *BoltDB) Close() error {
	return db.db.Close()
}
