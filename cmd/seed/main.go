package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/renalhub/nurse-scheduling/internal/schedule"
	"github.com/renalhub/nurse-scheduling/internal/store"
)

// Seeds a data directory with mock nurse rosters so the API has something
// to book against.
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	log.Info().Msg("seed starting")

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	fileStore, err := store.NewFileStore(dataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("snapshot store error")
	}

	gofakeit.Seed(time.Now().UnixNano())

	nurses := seedNurses(25)

	ctx := context.Background()
	snap, err := fileStore.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("snapshot load error")
	}
	snap.Nurses = nurses

	if err := fileStore.Flush(ctx, snap); err != nil {
		log.Fatal().Err(err).Msg("snapshot flush error")
	}

	log.Info().Int("nurses", len(nurses)).Str("data_dir", dataDir).Msg("seed complete")
}

func seedNurses(count int) []schedule.Nurse {
	specialties := []string{
		"Dialysis Specialist",
		"Renal Care",
		"Wound Care",
		"Palliative Care",
		"General Practice",
		"Home-Based Care",
		"Chronic Medication",
	}
	nurseTypes := []string{
		"Professional Nurse (RN)",
		"Staff Nurse (EN)",
		"Nursing Assistant (ENA)",
		"Nurse Practitioner (NP)",
	}
	languages := []string{"English", "Afrikaans", "isiZulu", "isiXhosa", "Sesotho"}

	nurses := make([]schedule.Nurse, 0, count)
	for i := 0; i < count; i++ {
		n := schedule.Nurse{
			ID:         fmt.Sprintf("n%03d", i+1),
			Name:       "Nurse " + gofakeit.Name(),
			Specialty:  specialties[gofakeit.Number(0, len(specialties)-1)],
			SancNumber: fmt.Sprintf("SANC-%06d", gofakeit.Number(100000, 999999)),
			NurseType:  nurseTypes[gofakeit.Number(0, len(nurseTypes)-1)],
			Status:     schedule.NurseAvailable,
			Active:     true,
			Languages: []string{
				"English",
				languages[gofakeit.Number(1, len(languages)-1)],
			},
			Availability: seedAvailability(),
		}
		nurses = append(nurses, n)
	}
	return nurses
}

// seedAvailability publishes a random subset of clinic slots for each of
// the next 14 days, skipping some days entirely.
func seedAvailability() map[string][]string {
	avail := make(map[string][]string)
	for day := 1; day <= 14; day++ {
		if gofakeit.Number(0, 4) == 0 {
			continue
		}
		date := time.Now().AddDate(0, 0, day).Format("2006-01-02")

		var slots []string
		for _, slot := range schedule.ClinicSlots {
			if gofakeit.Bool() {
				slots = append(slots, slot)
			}
		}
		if len(slots) > 0 {
			avail[date] = slots
		}
	}
	return avail
}
