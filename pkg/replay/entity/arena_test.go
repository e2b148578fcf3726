package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

func series(times ...float64) *model.TimeSeries {
	n := len(times)
	return &model.TimeSeries{
		Times:     times,
		Positions: make([]model.Vec3, n),
		Throttle:  make([]float64, n),
		Brake:     make([]float64, n),
		Speed:     make([]float64, n),
	}
}

func TestArena_Add(t *testing.T) {
	a := NewArena()
	id, err := a.Add("44", model.DriverInfo{Number: "44"}, series(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	id, err = a.Add("1", model.DriverInfo{Number: "1"}, series(0, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []string{"44", "1"}, a.Keys())
	assert.Equal(t, []int{0, 1}, a.IDs())
	got, ok := a.Lookup("1")
	assert.True(t, ok)
	assert.Equal(t, "1", a.Get(got).Info.Number)
	assert.Equal(t, 3.0, a.LastTime())
}

func TestArena_AddRejects(t *testing.T) {
	a := NewArena()
	_, err := a.Add("44", model.DriverInfo{}, series(0, 1))
	require.NoError(t, err)

	_, err = a.Add("44", model.DriverInfo{}, series(0, 1))
	assert.ErrorIs(t, err, ErrDuplicateEntity)

	_, err = a.Add("empty", model.DriverInfo{}, series())
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	bad := series(0, 1)
	bad.Speed = bad.Speed[:1]
	_, err = a.Add("bad", model.DriverInfo{}, bad)
	assert.ErrorIs(t, err, model.ErrSeriesLength)

	_, err = a.Add("unordered", model.DriverInfo{}, series(1, 0))
	assert.ErrorIs(t, err, model.ErrSeriesOrder)

	assert.Equal(t, 1, a.Len())
}

func TestArena_Get(t *testing.T) {
	a := NewArena()
	assert.Nil(t, a.Get(0))
	assert.Nil(t, a.Get(-1))
	assert.Equal(t, 0.0, a.LastTime())
}
