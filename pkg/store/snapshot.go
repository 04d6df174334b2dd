package store

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"

	. "github.com/paiml/ruchy-sub012/pkg/store/storedefs"
)

func init() {
	initDB["initialize snapshot bucket"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshot))
		return err
	}
}

// SaveSnapshot replaces the saved bindings. Bindings keep their order; keys
// are positions, values hold the name and the printed value.
func (s *dbStore) SaveSnapshot(bindings []Binding) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketSnapshot)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket([]byte(bucketSnapshot))
		if err != nil {
			return err
		}
		for i, bd := range bindings {
			if err := b.Put(marshalSeq(uint64(i)), marshalBinding(bd)); err != nil {
				return err
			}
		}
		logger.Printf("saved %d bindings", len(bindings))
		return nil
	})
}

// Snapshot returns the saved bindings, or ErrNoSnapshot if there are none.
func (s *dbStore) Snapshot() ([]Binding, error) {
	var bindings []Binding
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshot)).ForEach(func(_, v []byte) error {
			bindings = append(bindings, unmarshalBinding(v))
			return nil
		})
	})
	if err == nil && len(bindings) == 0 {
		return nil, ErrNoSnapshot
	}
	return bindings, err
}

// ClearSnapshot removes the saved bindings.
func (s *dbStore) ClearSnapshot() error {
	return s.SaveSnapshot(nil)
}

// A binding is stored as the length of the name, the name and the value.
func marshalBinding(bd Binding) []byte {
	buf := make([]byte, 4, 4+len(bd.Name)+len(bd.Value))
	binary.BigEndian.PutUint32(buf, uint32(len(bd.Name)))
	buf = append(buf, bd.Name...)
	return append(buf, bd.Value...)
}

func unmarshalBinding(data []byte) Binding {
	n := binary.BigEndian.Uint32(data)
	return Binding{Name: string(data[4 : 4+n]), Value: string(data[4+n:])}
}
