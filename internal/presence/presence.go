// Package presence simulates a nurse presence system by flipping statuses
// on a schedule. It stands in for a real presence feed and only talks to
// the scheduling engine through its status operation, so it can never race
// booking logic.
package presence

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/renalhub/nurse-scheduling/internal/schedule"
)

// StatusUpdater is the slice of the engine the simulator needs.
type StatusUpdater interface {
	Nurses() []schedule.Nurse
	SetNurseStatus(ctx context.Context, nurseID string, status schedule.NurseStatus) error
}

var statuses = []schedule.NurseStatus{
	schedule.NurseAvailable,
	schedule.NurseOnCall,
	schedule.NurseOffline,
}

type Simulator struct {
	updater StatusUpdater
	log     zerolog.Logger
	rand    *rand.Rand
}

func NewSimulator(updater StatusUpdater, log zerolog.Logger, seed int64) *Simulator {
	return &Simulator{
		updater: updater,
		log:     log,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

// Tick flips one random active nurse to a random status.
func (s *Simulator) Tick(ctx context.Context) {
	nurses := s.updater.Nurses()

	active := nurses[:0]
	for _, n := range nurses {
		if n.Active {
			active = append(active, n)
		}
	}
	if len(active) == 0 {
		return
	}

	nurse := active[s.rand.Intn(len(active))]
	status := statuses[s.rand.Intn(len(statuses))]

	if err := s.updater.SetNurseStatus(ctx, nurse.ID, status); err != nil {
		s.log.Error().Err(err).Str("nurse_id", nurse.ID).Msg("presence update failed")
		return
	}

	s.log.Debug().
		Str("nurse_id", nurse.ID).
		Str("status", string(status)).
		Msg("presence updated")
}
