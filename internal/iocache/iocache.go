// Package iocache provides durable storage: a page cache for fetched poll
// data and a run-tracking store for aggregation history.
package iocache

import (
	"sync"

	"github.com/polltrend/polltrend/internal/contract"
)

// CacheStoreManager manages the page cache and run store instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	page         contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetPageStore returns the page CacheStore.
func (mgr *CacheStoreManager) GetPageStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.page
}

// GetRunStore returns the run-tracking RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
