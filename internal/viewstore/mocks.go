package viewstore

import (
	"github.com/stretchr/testify/mock"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetStateStore implements the StoreManager interface.
func (m *MockStoreManager) GetStateStore() contract.ViewStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ViewStore)
	return store
}

// GetSnapshotStore implements the StoreManager interface.
func (m *MockStoreManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockViewStore is a mock implementation of ViewStore for testing.
type MockViewStore struct {
	mock.Mock
}

var _ contract.ViewStore = &MockViewStore{} // Compile-time check

// Get implements the ViewStore interface.
func (m *MockViewStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the ViewStore interface.
func (m *MockViewStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Delete implements the ViewStore interface.
func (m *MockViewStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// GetStatus implements the ViewStore interface.
func (m *MockViewStore) GetStatus() (schema.StateStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StateStatus), args.Error(1)
}

// Close implements the ViewStore interface.
func (m *MockViewStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// RecordSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) RecordSnapshot(snap schema.ViewSnapshot) (string, error) {
	args := m.Called(snap)
	return args.String(0), args.Error(1)
}

// ListSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) ListSnapshots(chartKey string, limit int) ([]schema.ViewSnapshot, error) {
	args := m.Called(chartKey, limit)
	snaps, _ := args.Get(0).([]schema.ViewSnapshot)
	return snaps, args.Error(1)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.SnapshotStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SnapshotStatus), args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
