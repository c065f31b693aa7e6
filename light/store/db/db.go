package db

import (
	"encoding/json"
	"fmt"
	"sync"

	dbm "github.com/tendermint/tm-db"

	"github.com/optimist-light/optimist/light/store"
	"github.com/optimist-light/optimist/types"
)

type dbs struct {
	db     dbm.DB
	prefix string

	mtx  sync.RWMutex
	size uint16
}

// New returns a Store backed by any tm-db database. The prefix scopes the
// keys so multiple stores can share one database.
func New(db dbm.DB, prefix string) store.Store {
	s := &dbs{db: db, prefix: prefix}
	size := uint16(0)
	if itr, err := db.Iterator(s.rangeStart(), s.rangeEnd()); err == nil {
		for ; itr.Valid(); itr.Next() {
			size++
		}
		itr.Close()
	}
	s.size = size
	return s
}

func (s *dbs) SaveCheckpoint(cp store.Checkpoint) error {
	if cp.Hash.IsZero() {
		return fmt.Errorf("checkpoint for period %d has zero hash", cp.Period)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := s.key(cp.Period)
	existing, err := s.db.Has(key)
	if err != nil {
		return err
	}

	bz, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	if err := s.db.SetSync(key, bz); err != nil {
		return err
	}
	if !existing {
		s.size++
	}
	return nil
}

func (s *dbs) Checkpoint(period types.Period) (store.Checkpoint, error) {
	bz, err := s.db.Get(s.key(period))
	if err != nil {
		return store.Checkpoint{}, err
	}
	if len(bz) == 0 {
		return store.Checkpoint{}, store.ErrCheckpointNotFound
	}

	var cp store.Checkpoint
	if err := json.Unmarshal(bz, &cp); err != nil {
		return store.Checkpoint{}, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return cp, nil
}

func (s *dbs) LastCheckpointPeriod() (int64, error) {
	itr, err := s.db.ReverseIterator(s.rangeStart(), s.rangeEnd())
	if err != nil {
		return -1, err
	}
	defer itr.Close()

	if itr.Valid() {
		return s.decodeKey(itr.Key())
	}
	return -1, itr.Error()
}

func (s *dbs) FirstCheckpointPeriod() (int64, error) {
	itr, err := s.db.Iterator(s.rangeStart(), s.rangeEnd())
	if err != nil {
		return -1, err
	}
	defer itr.Close()

	if itr.Valid() {
		return s.decodeKey(itr.Key())
	}
	return -1, itr.Error()
}

func (s *dbs) DeleteCheckpoint(period types.Period) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := s.key(period)
	existing, err := s.db.Has(key)
	if err != nil {
		return err
	}
	if !existing {
		return nil
	}
	if err := s.db.DeleteSync(key); err != nil {
		return err
	}
	s.size--
	return nil
}

func (s *dbs) Prune(size uint16) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.size <= size {
		return nil
	}
	excess := s.size - size

	itr, err := s.db.Iterator(s.rangeStart(), s.rangeEnd())
	if err != nil {
		return err
	}
	defer itr.Close()

	b := s.db.NewBatch()
	defer b.Close()

	for ; itr.Valid() && excess > 0; itr.Next() {
		key := make([]byte, len(itr.Key()))
		copy(key, itr.Key())
		if err := b.Delete(key); err != nil {
			return err
		}
		excess--
		s.size--
	}
	if err := itr.Error(); err != nil {
		return err
	}
	return b.WriteSync()
}

func (s *dbs) Size() uint16 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.size
}

func (s *dbs) key(period types.Period) []byte {
	return []byte(fmt.Sprintf("cp_%s/%020d", s.prefix, period))
}

func (s *dbs) rangeStart() []byte {
	return []byte(fmt.Sprintf("cp_%s/", s.prefix))
}

func (s *dbs) rangeEnd() []byte {
	// '0' is the successor of '/', so this bounds all keys under the prefix.
	return []byte(fmt.Sprintf("cp_%s0", s.prefix))
}

func (s *dbs) decodeKey(key []byte) (int64, error) {
	var period int64
	_, err := fmt.Sscanf(string(key), "cp_"+s.prefix+"/%020d", &period)
	if err != nil {
		return -1, fmt.Errorf("unparseable checkpoint key %q: %w", key, err)
	}
	return period, nil
}
