// Package bolt provides a storage.Store backed by bbolt.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/freightlang/freight/storage"

	bolt "go.etcd.io/bbolt"
)

var runsBucket = []byte("runs")

// Storage is a storage.Store on a single bbolt file.
//
// Run records live in one bucket keyed by run id.  Each run's trace
// lives in its own bucket under big-endian sequence keys, so a cursor
// walks it in write order.
type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

func (s *Storage) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("BoltDB Storage."+format, args...)
	}
}

func firingsBucket(runId string) []byte {
	return []byte("firings." + runId)
}

func (s *Storage) AddRun(ctx context.Context, r *storage.RunRecord) error {
	s.logf("AddRun %s", r.Id)
	js, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(runsBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(r.Id), js)
	})
}

func (s *Storage) GetRun(ctx context.Context, id string) (*storage.RunRecord, error) {
	s.logf("GetRun %s", id)
	var r *storage.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(runsBucket)
		if b == nil {
			return nil
		}
		bs := b.Get([]byte(id))
		if bs == nil {
			return nil
		}
		r = &storage.RunRecord{}
		return json.Unmarshal(bs, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Storage) ListRuns(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(runsBucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for id, _ := c.First(); id != nil; id, _ = c.Next() {
			ids = append(ids, string(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logf("ListRuns found %d runs", len(ids))

	return ids, nil
}

func (s *Storage) AddFiring(ctx context.Context, runId string, f *storage.FiringRecord) error {
	s.logf("AddFiring %s round %d station %d", runId, f.Round, f.Station)
	js, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(firingsBucket(runId))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, js)
	})
}

func (s *Storage) Firings(ctx context.Context, runId string) ([]*storage.FiringRecord, error) {
	fs := make([]*storage.FiringRecord, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(firingsBucket(runId))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for key, bs := c.First(); key != nil; key, bs = c.Next() {
			var f storage.FiringRecord
			if err := json.Unmarshal(bs, &f); err != nil {
				return fmt.Errorf("firing %x: %v", key, err)
			}
			fs = append(fs, &f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logf("Firings %s found %d", runId, len(fs))

	return fs, nil
}
