package service

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"pacemaker_dcm/internal/models"
)

// ----------- Egram synthesis constants -----------
const (
	egramDT      = 0.02 // simulated seconds per sample
	egramBufSize = 400  // retained samples, 8s at 50 Hz

	atrialHz     = 1.5
	ventrHz      = 1.0
	surfaceHz    = 1.2
	atrialAmpMV  = 0.4
	ventrAmpMV   = 0.8
	surfaceAmp   = 0.6
	ventrPhase   = 1.0
	surfacePhase = 0.5
)

// EgramService synthesizes a rolling window of intracardiac and surface
// electrogram samples.
type EgramService struct {
	mu      sync.Mutex
	t       float64
	samples []models.EgramSample
	rng     *rand.Rand
}

func NewEgramService() *EgramService {
	return &EgramService{
		samples: make([]models.EgramSample, 0, egramBufSize),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run produces one sample per tick until ctx is canceled.
func (s *EgramService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.advance()
		}
	}
}

// Latest returns the newest sample, if any have been produced.
func (s *EgramService) Latest() (models.EgramSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return models.EgramSample{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// Snapshot copies the retained window, oldest first.
func (s *EgramService) Snapshot() []models.EgramSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EgramSample, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *EgramService) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample := models.EgramSample{
		TimeS:      s.t,
		AtrialMV:   atrialAmpMV*math.Sin(2*math.Pi*atrialHz*s.t) + s.noise(0.05),
		VentrMV:    ventrAmpMV*math.Sin(2*math.Pi*ventrHz*s.t+ventrPhase) + s.noise(0.05),
		SurfaceECG: surfaceAmp*math.Sin(2*math.Pi*surfaceHz*s.t+surfacePhase) + s.noise(0.04),
	}
	s.t += egramDT

	s.samples = append(s.samples, sample)
	if len(s.samples) > egramBufSize {
		s.samples = s.samples[len(s.samples)-egramBufSize:]
	}
}

// noise returns uniform noise in [-amp, amp].
func (s *EgramService) noise(amp float64) float64 {
	return amp * (2*s.rng.Float64() - 1)
}
