// Load simulator for the booking API. Workers race to book the same pool
// of published slots; the report shows how many attempts won, hit a
// conflict, or failed, which is a live check of the no-double-booking
// guarantee.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
)

type SimConfig struct {
	APIBaseURL string
	Duration   time.Duration
	Workers    int
}

type slotRef struct {
	NurseID string
	Date    string
	Time    string
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, success, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case success:
		atomic.AddInt64(&om.Success, 1)
	case conflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.latencies = append(om.latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.latencies) == 0 {
		return 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.latencies))
	copy(latencies, om.latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg = sum / time.Duration(len(latencies))
	p50 = latencies[len(latencies)*50/100]
	p95 = latencies[min(len(latencies)*95/100, len(latencies)-1)]
	return avg, p50, p95
}

type Simulator struct {
	config  SimConfig
	slots   []slotRef
	client  *http.Client
	log     zerolog.Logger
	metrics OperationMetrics
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	log.Info().Msg("simulator starting")

	cfg := SimConfig{
		APIBaseURL: getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:   getDuration("SIM_DURATION", 30*time.Second),
		Workers:    getInt("SIM_WORKERS", 10),
	}
	if cfg.Workers <= 0 || cfg.Duration <= 0 {
		log.Fatal().Msg("SIM_WORKERS and SIM_DURATION must be > 0")
	}

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}

	if err := sim.loadSlots(); err != nil {
		log.Fatal().Err(err).Msg("load slot pool")
	}
	log.Info().Int("slots", len(sim.slots)).Msg("slot pool loaded")

	sim.Run()
	sim.PrintReport()
}

// loadSlots pulls the nurse roster from the API and flattens every
// published future slot into the contention pool.
func (s *Simulator) loadSlots() error {
	resp, err := s.client.Get(s.config.APIBaseURL + "/nurses")
	if err != nil {
		return fmt.Errorf("list nurses: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("list nurses: status %d", resp.StatusCode)
	}

	var nurses []struct {
		ID           string              `json:"id"`
		Active       bool                `json:"active"`
		Availability map[string][]string `json:"availability"`
		BlockedDates []string            `json:"blockedDates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&nurses); err != nil {
		return fmt.Errorf("decode nurses: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	for _, n := range nurses {
		if !n.Active {
			continue
		}
		blocked := make(map[string]bool, len(n.BlockedDates))
		for _, d := range n.BlockedDates {
			blocked[d] = true
		}
		for date, slots := range n.Availability {
			if date < today || blocked[date] {
				continue
			}
			for _, slot := range slots {
				s.slots = append(s.slots, slotRef{NurseID: n.ID, Date: date, Time: slot})
			}
		}
	}

	if len(s.slots) == 0 {
		return fmt.Errorf("no bookable slots published, run the seed first")
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.log.Info().
		Dur("duration", s.config.Duration).
		Int("workers", s.config.Workers).
		Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.doBooking(ctx, rng, workerID)
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand, workerID int) {
	slot := s.slots[rng.Intn(len(s.slots))]

	reqBody := map[string]string{
		"nurse_id":          slot.NurseID,
		"patient_id":        fmt.Sprintf("sim-patient-%d", workerID),
		"patient_name":      gofakeit.Name(),
		"date":              slot.Date,
		"time":              slot.Time,
		"type":              "Check-up",
		"consultation_type": "In-person",
	}
	body, _ := json.Marshal(reqBody)

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+"/appointments", bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		if ctx.Err() == nil {
			s.metrics.Record(latency, false, false)
		}
		return
	}
	defer resp.Body.Close()

	success := resp.StatusCode == http.StatusCreated
	conflict := resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity
	s.metrics.Record(latency, success, conflict)
}

func (s *Simulator) PrintReport() {
	avg, p50, p95 := s.metrics.Stats()
	s.log.Info().
		Int64("total", atomic.LoadInt64(&s.metrics.Total)).
		Int64("booked", atomic.LoadInt64(&s.metrics.Success)).
		Int64("conflicts", atomic.LoadInt64(&s.metrics.Conflict)).
		Int64("errors", atomic.LoadInt64(&s.metrics.Error)).
		Dur("latency_avg", avg).
		Dur("latency_p50", p50).
		Dur("latency_p95", p95).
		Msg("booking report")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
