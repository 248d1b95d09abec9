// Package viewstore persists chart view state and view snapshots.
package viewstore

import (
	"sync"

	"github.com/huangsam/chartscope/internal/contract"
)

// StoreManager manages the view state and snapshot stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	state        contract.ViewStore
	snapshots    contract.SnapshotStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetStateStore returns the view state store.
func (mgr *StoreManager) GetStateStore() contract.ViewStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.state
}

// GetSnapshotStore returns the snapshot store, or nil when snapshots are disabled.
func (mgr *StoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}
