package replay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	geocache "github.com/mpapenbr/iracelog-trackreplay/pkg/geometry/cache"
	"github.com/mpapenbr/iracelog-trackreplay/testsupport/basedata"
)

func TestNewSession(t *testing.T) {
	s := NewSession(basedata.SampleRaceData())
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 2, s.Arena.Len())
	assert.Equal(t, []string{"broken"}, s.Skipped)

	id, ok := s.Arena.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, "Max Verstappen", s.Arena.Get(id).Info.Name)

	slots := s.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, "1", slots[0].Info.Number)
	assert.Equal(t, "44", slots[1].Info.Number)
}

func TestSession_Track(t *testing.T) {
	s := NewSession(basedata.SampleRaceData())
	c := geocache.New()
	r, err := s.Track(context.Background(), c, 0.1)
	require.NoError(t, err)
	assert.Len(t, r.Mesh.Vertices, 6)

	again, err := s.Track(context.Background(), c, 0.1)
	require.NoError(t, err)
	assert.Same(t, r, again)
}
