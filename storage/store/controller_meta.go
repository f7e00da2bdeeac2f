package store

import (
	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation"
)

// ControllerMeta implements persistent storage for the controller counters.
// The counters change with almost every operation, so they are not cached.
type ControllerMeta struct {
	db storage.DB
}

var _ storage.ControllerMeta = (*ControllerMeta)(nil)

func NewControllerMeta(db storage.DB) *ControllerMeta {
	return &ControllerMeta{db: db}
}

func (m *ControllerMeta) BatchStore(rw storage.ReaderBatchWriter, meta *randcast.ControllerMeta) error {
	return operation.UpsertControllerMeta(rw.Writer(), meta)
}

func (m *ControllerMeta) Retrieve() (*randcast.ControllerMeta, error) {
	var meta randcast.ControllerMeta
	err := operation.RetrieveControllerMeta(m.db.Reader(), &meta)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
