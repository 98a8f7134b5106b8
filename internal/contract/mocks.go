package contract

import (
	"context"
	"time"

	"github.com/polltrend/polltrend/schema"
	"github.com/stretchr/testify/mock"
)

// MockPollSource is a testify mock for the PollSource interface.
type MockPollSource struct {
	mock.Mock
}

var _ PollSource = &MockPollSource{} // Compile-time check

// FetchPolls implements the PollSource interface.
func (m *MockPollSource) FetchPolls(ctx context.Context) (*schema.PollsResult, error) {
	ret := m.Called(ctx)
	result, _ := ret.Get(0).(*schema.PollsResult)
	return result, ret.Error(1)
}

// MockCacheStore is a testify mock for the CacheStore interface.
type MockCacheStore struct {
	mock.Mock
}

var _ CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	ret := m.Called(key)
	value, _ := ret.Get(0).([]byte)
	version, _ := ret.Get(1).(int)
	timestamp, _ := ret.Get(2).(int64)
	return value, version, timestamp, ret.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	ret := m.Called(key, value, version, timestamp)
	return ret.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.CacheStatus)
	return status, ret.Error(1)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

// MockCacheManager is a testify mock for the CacheManager interface.
type MockCacheManager struct {
	mock.Mock
}

var _ CacheManager = &MockCacheManager{} // Compile-time check

// GetPageStore implements the CacheManager interface.
func (m *MockCacheManager) GetPageStore() CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(CacheStore)
	return store
}

// GetRunStore implements the CacheManager interface.
func (m *MockCacheManager) GetRunStore() RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(RunStore)
	return store
}

// MockRunStore is a testify mock for the RunStore interface.
type MockRunStore struct {
	mock.Mock
}

var _ RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	ret := m.Called(startTime, configParams)
	runID, _ := ret.Get(0).(int64)
	return runID, ret.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalRows int) error {
	ret := m.Called(runID, endTime, totalRows)
	return ret.Error(0)
}

// RecordTrendPoints implements the RunStore interface.
func (m *MockRunStore) RecordTrendPoints(runID int64, points []schema.TrendPointRecord) error {
	ret := m.Called(runID, points)
	return ret.Error(0)
}

// GetAllRunRecords implements the RunStore interface.
func (m *MockRunStore) GetAllRunRecords() ([]schema.RunRecord, error) {
	ret := m.Called()
	records, _ := ret.Get(0).([]schema.RunRecord)
	return records, ret.Error(1)
}

// GetAllTrendPointRecords implements the RunStore interface.
func (m *MockRunStore) GetAllTrendPointRecords() ([]schema.TrendPointRecord, error) {
	ret := m.Called()
	records, _ := ret.Get(0).([]schema.TrendPointRecord)
	return records, ret.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunsStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.RunsStatus)
	return status, ret.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
