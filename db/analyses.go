package db

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/stakestar/nodelyzer/utils"
	bolt "go.etcd.io/bbolt"
)

var analysesBucketName = []byte("Analyses")

func setupAnalysesBucket(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(analysesBucketName)
		return err
	})
}

// SaveAnalysis stores a new record, assigning its ID and creation time.
func (db *BoltDB) SaveAnalysis(record *AnalysisRecord) error {
	return db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(analysesBucketName)
		id, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		record.ID = id
		record.CreatedAt = time.Now().UTC()

		value, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return bucket.Put(utils.Uint64ToBytes(id), value)
	})
}

func (db *BoltDB) GetAnalysis(id uint64) (*AnalysisRecord, error) {
	var data AnalysisRecord
	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(analysesBucketName)
		value := bucket.Get(utils.Uint64ToBytes(id))
		if value == nil {
			return ErrNotFound
		}
		return json.Unmarshal(value, &data)
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// ListAnalyses returns saved records newest first. An empty network matches all records.
func (db *BoltDB) ListAnalyses(network string) ([]AnalysisRecord, error) {
	dataList := []AnalysisRecord{}
	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(analysesBucketName)
		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var data AnalysisRecord
			err := json.Unmarshal(v, &data)
			if err != nil {
				return err
			}

			if network != "" && !strings.EqualFold(data.Network, network) {
				continue
			}

			dataList = append(dataList, data)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dataList, nil
}

func (db *BoltDB) DeleteAnalysis(id uint64) error {
	return db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(analysesBucketName)
		key := utils.Uint64ToBytes(id)
		if bucket.Get(key) == nil {
			return ErrNotFound
		}
		return bucket.Delete(key)
	})
}

// RenameAnalysis changes the name of a saved record and returns the updated record.
func (db *BoltDB) RenameAnalysis(id uint64, name string) (*AnalysisRecord, error) {
	var data AnalysisRecord
	err := db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(analysesBucketName)
		key := utils.Uint64ToBytes(id)
		value := bucket.Get(key)
		if value == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(value, &data); err != nil {
			return err
		}

		data.Name = name
		value, err := json.Marshal(&data)
		if err != nil {
			return err
		}
		return bucket.Put(key, value)
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}
