package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
)

type InMemoryGroupStore struct {
	groupMutex *sync.RWMutex
	groupMap   map[string][]uploadModel.Group
}

func InitInMemoryGroupStore() *InMemoryGroupStore {
	return &InMemoryGroupStore{
		groupMutex: new(sync.RWMutex),
		groupMap:   make(map[string][]uploadModel.Group),
	}
}

func (store *InMemoryGroupStore) SaveGroup(ctx context.Context, group uploadModel.Group) error {
	store.groupMutex.Lock()
	defer store.groupMutex.Unlock()
	store.groupMap[group.UploadId] = append(store.groupMap[group.UploadId], group)
	return nil
}

func (store *InMemoryGroupStore) ListGroups(ctx context.Context, uploadId string) ([]uploadModel.Group, error) {
	store.groupMutex.RLock()
	defer store.groupMutex.RUnlock()
	groups := make([]uploadModel.Group, len(store.groupMap[uploadId]))
	copy(groups, store.groupMap[uploadId])
	sort.Slice(groups, func(i, j int) bool { return groups[i].Filename < groups[j].Filename })
	return groups, nil
}

func (store *InMemoryGroupStore) DeleteGroups(ctx context.Context, uploadId string) (int64, error) {
	store.groupMutex.Lock()
	defer store.groupMutex.Unlock()
	deleted := int64(len(store.groupMap[uploadId]))
	delete(store.groupMap, uploadId)
	return deleted, nil
}
