// Package store persists ingested datasets in a bbolt file so a snapshot can
// be imported once and queried many times.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/kcar/core/internal/models"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrEmptyName       = errors.New("dataset name is empty")
	ErrNotOpen         = errors.New("store is not open")
)

var datasetsBucket = []byte("datasets")

type Config struct {
	DBFile      string
	BoltOptions *bolt.Options
}

func NewConfig(dbFile string) *Config {
	return &Config{
		DBFile: dbFile,
		BoltOptions: &bolt.Options{
			Timeout: 1 * time.Second,
		},
	}
}

type Store struct {
	config *Config
	db     *bolt.DB
	mu     sync.Mutex
}

func New(config *Config) *Store {
	return &Store{config: config}
}

// With opens the store, runs fn and closes the store again.
func With(config *Config, fn func(*Store) error) error {
	s := New(config)
	if err := s.Open(); err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.WithField("db", config.DBFile).Errorf("Closing store: %s", err)
		}
	}()
	return fn(s)
}

func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := bolt.Open(s.config.DBFile, 0600, s.config.BoltOptions)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.config.DBFile, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(datasetsBucket)
		return err
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.WithField("db", s.config.DBFile).Errorf("Closing store: %s", closeErr)
		}
		return fmt.Errorf("initializing %s: %w", s.config.DBFile, err)
	}

	s.db = db
	log.WithField("db", s.config.DBFile).Debug("Store opened")
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Put stores ds under name, replacing any previous dataset of that name.
func (s *Store) Put(name string, ds *models.Dataset) error {
	if name == "" {
		return ErrEmptyName
	}
	db, err := s.handle()
	if err != nil {
		return err
	}

	value, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encoding dataset %q: %w", name, err)
	}

	return db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(datasetsBucket).Put([]byte(name), value)
	})
}

func (s *Store) Get(name string) (*models.Dataset, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var ds models.Dataset
	if err := db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(datasetsBucket).Get([]byte(name))
		if value == nil {
			return fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
		}
		return json.Unmarshal(value, &ds)
	}); err != nil {
		return nil, err
	}
	return &ds, nil
}

// List returns the stored dataset names in byte order.
func (s *Store) List() ([]string, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var names []string
	err = db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(datasetsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *Store) Delete(name string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(datasetsBucket)
		if b.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
		}
		return b.Delete([]byte(name))
	})
}

func (s *Store) handle() (*bolt.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrNotOpen
	}
	return s.db, nil
}
