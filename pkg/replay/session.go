package replay

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/mpapenbr/iracelog-trackreplay/log"
	geocache "github.com/mpapenbr/iracelog-trackreplay/pkg/geometry/cache"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/geometry/track"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/loader"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/replay/entity"
)

// Session bundles the entities and the track of a loaded race.
type Session struct {
	ID      string
	Data    *model.RaceData
	Arena   *entity.Arena
	Skipped []string // drivers without usable telemetry
}

// NewSession creates the entity arena of rd. Drivers with malformed
// telemetry are skipped so the rest of the field can still be replayed.
func NewSession(rd *model.RaceData) *Session {
	ret := &Session{
		ID:    uuid.New().String(),
		Data:  rd,
		Arena: entity.NewArena(),
	}
	l := log.Default().Named("replay.session")
	for i := range rd.Telemetry {
		dt := &rd.Telemetry[i]
		series, err := loader.Series(dt)
		if err == nil {
			_, err = ret.Arena.Add(dt.Driver, driverInfo(rd, dt.Driver), series)
		}
		if err != nil {
			l.Warn("skipping driver", log.String("driver", dt.Driver), log.ErrorField(err))
			ret.Skipped = append(ret.Skipped, dt.Driver)
		}
	}
	l.Info("session created",
		log.String("id", ret.ID),
		log.Int("entities", ret.Arena.Len()),
		log.Int("skipped", len(ret.Skipped)))
	return ret
}

// Track returns the memoized track geometry of the session.
func (s *Session) Track(ctx context.Context, c *geocache.GeometryCache, width float64) (
	*track.Result, error,
) {
	return c.Get(ctx, loader.TrackPath(s.Data), width)
}

// Slots returns the entity slots ordered by driver number.
func (s *Session) Slots() []*entity.Slot {
	ret := make([]*entity.Slot, 0, s.Arena.Len())
	s.Arena.Each(func(slot *entity.Slot) {
		ret = append(ret, slot)
	})
	sort.SliceStable(ret, func(i, j int) bool {
		a, errA := strconv.Atoi(ret[i].Info.Number)
		b, errB := strconv.Atoi(ret[j].Info.Number)
		if errA == nil && errB == nil {
			return a < b
		}
		return ret[i].Info.Number < ret[j].Info.Number
	})
	return ret
}

func driverInfo(rd *model.RaceData, key string) model.DriverInfo {
	if info, ok := rd.Drivers[key]; ok {
		return info
	}
	return model.DriverInfo{Number: key}
}
