package syncshadow

import (
	"sync"
)

// SyncShadow maps synchronization object names to their SyncVar.
type SyncShadow struct {
	vars sync.Map // map[string]*SyncVar
}

// NewSyncShadow creates an empty sync shadow.
func NewSyncShadow() *SyncShadow {
	return &SyncShadow{}
}

// GetOrCreate returns the SyncVar for name, creating it on first use.
func (s *SyncShadow) GetOrCreate(name string) *SyncVar {
	if val, ok := s.vars.Load(name); ok {
		return val.(*SyncVar)
	}
	val, _ := s.vars.LoadOrStore(name, &SyncVar{})
	return val.(*SyncVar)
}

