package shadowmem

import (
	"sort"
	"sync"
)

// ShadowMemory maps every tracked Loc to its VarState.
//
// sync.Map suits the access pattern: a location is created once and then
// looked up many times.
type ShadowMemory struct {
	cells sync.Map // map[Loc]*VarState
}

// NewShadowMemory creates an empty shadow memory.
func NewShadowMemory() *ShadowMemory {
	return &ShadowMemory{}
}

// GetOrCreate returns the cell for loc, creating it on first access.
// Concurrent callers for the same loc all receive the same cell.
func (sm *ShadowMemory) GetOrCreate(loc Loc) *VarState {
	if val, ok := sm.cells.Load(loc); ok {
		return val.(*VarState)
	}
	actual, _ := sm.cells.LoadOrStore(loc, NewVarState())
	return actual.(*VarState)
}

// Get returns the cell for loc, or nil if it was never accessed.
func (sm *ShadowMemory) Get(loc Loc) *VarState {
	val, ok := sm.cells.Load(loc)
	if !ok {
		return nil
	}
	return val.(*VarState)
}

// Locs lists every tracked location, sorted by name then index.
func (sm *ShadowMemory) Locs() []Loc {
	var locs []Loc
	sm.cells.Range(func(key, _ any) bool {
		locs = append(locs, key.(Loc))
		return true
	})
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Name != locs[j].Name {
			return locs[i].Name < locs[j].Name
		}
		return locs[i].Index < locs[j].Index
	})
	return locs
}

