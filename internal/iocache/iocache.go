// Package iocache persists analyses into the snapshot and measure archive.
package iocache

import (
	"sync"

	"github.com/huangsam/gauge/internal/contract"
)

// StoreManager holds the analysis store used by the commands.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	analysis     contract.AnalysisStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *StoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
