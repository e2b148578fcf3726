package entity

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/playback/interpolate"
)

var ErrDuplicateEntity = errors.New("duplicate entity")

// Slot holds a replayed entity. The id of a slot is its index in the arena.
type Slot struct {
	ID     int
	Key    string
	Info   model.DriverInfo
	Series *model.TimeSeries
	// state applied by the latest frame
	Current Current
}

type Current struct {
	Result  interpolate.Result
	Visual  model.VisualState
	Updated bool
}

// Arena stores entities in slots addressed by stable integer ids.
// Ids are assigned in insertion order starting at 0.
type Arena struct {
	slots []*Slot
	byKey *orderedmap.OrderedMap[string, int]
}

func NewArena() *Arena {
	return &Arena{byKey: orderedmap.NewOrderedMap[string, int]()}
}

// Add validates series and appends a new slot.
func (a *Arena) Add(key string, info model.DriverInfo, series *model.TimeSeries) (int, error) {
	if _, ok := a.byKey.Get(key); ok {
		return -1, fmt.Errorf("%w: %s", ErrDuplicateEntity, key)
	}
	if err := series.Validate(); err != nil {
		return -1, fmt.Errorf("entity %s: %w", key, err)
	}
	id := len(a.slots)
	a.slots = append(a.slots, &Slot{ID: id, Key: key, Info: info, Series: series})
	a.byKey.Set(key, id)
	return id, nil
}

// Get returns the slot with the given id or nil.
func (a *Arena) Get(id int) *Slot {
	if id < 0 || id >= len(a.slots) {
		return nil
	}
	return a.slots[id]
}

func (a *Arena) Lookup(key string) (int, bool) {
	return a.byKey.Get(key)
}

func (a *Arena) Len() int {
	return len(a.slots)
}

func (a *Arena) Keys() []string {
	return a.byKey.Keys()
}

func (a *Arena) IDs() []int {
	return lo.Map(a.slots, func(s *Slot, _ int) int { return s.ID })
}

func (a *Arena) Each(f func(s *Slot)) {
	for _, s := range a.slots {
		f(s)
	}
}

// LastTime returns the latest sample time over all entities.
func (a *Arena) LastTime() float64 {
	if len(a.slots) == 0 {
		return 0
	}
	return lo.Max(lo.Map(a.slots, func(s *Slot, _ int) float64 {
		return s.Series.LastTime()
	}))
}
