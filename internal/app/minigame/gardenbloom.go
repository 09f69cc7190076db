package minigame

import (
	"sync"
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// BreathPhase is one stage of a breath cycle.
type BreathPhase string

const (
	Inhale BreathPhase = "inhale"
	Hold   BreathPhase = "hold"
	Exhale BreathPhase = "exhale"
)

// Breath cycle timing: inhale 4s, hold 2s, exhale 6s, 12s per cycle.
const (
	InhaleDuration = 4 * time.Second
	HoldDuration   = 2 * time.Second
	ExhaleDuration = 6 * time.Second
)

// TargetCycles returns how many full breath cycles finish the garden.
func TargetCycles(d domain.Difficulty) int {
	switch d {
	case domain.Medium:
		return 5
	case domain.Expert:
		return 7
	default:
		return 3
	}
}

// GardenBloom runs the breath-synced growth loop: each full cycle advances
// plant growth by 1/target, and reaching the target completes the activity.
//
// The loop is an explicit finite-state timer with a single cancellable
// handle, not a chain of nested closures, so the outer-timeout race and
// cancellation resolve without double-firing a completion.
type GardenBloom struct {
	mu       sync.Mutex
	clock    Clock
	complete func(domain.CompletionResult)

	phase   BreathPhase
	cycles  int
	target  int
	timer   Timer
	stopped bool
}

// NewGardenBloom creates the machine with the difficulty's cycle target.
func NewGardenBloom(clock Clock, difficulty domain.Difficulty, complete func(domain.CompletionResult)) *GardenBloom {
	return &GardenBloom{
		clock:    clock,
		complete: complete,
		phase:    Inhale,
		target:   TargetCycles(difficulty),
	}
}

// Start begins the first inhale.
func (g *GardenBloom) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return
	}
	g.phase = Inhale
	g.timer = g.clock.AfterFunc(InhaleDuration, g.advance)
}

// Stop makes all future timer callbacks inert. Idempotent.
func (g *GardenBloom) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	if g.timer != nil {
		g.timer.Stop()
	}
}

// Phase returns the current breath phase.
func (g *GardenBloom) Phase() BreathPhase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Cycles returns the completed cycle count.
func (g *GardenBloom) Cycles() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cycles
}

// Growth returns plant growth as a percentage of the target.
func (g *GardenBloom) Growth() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return float64(g.cycles) / float64(g.target) * 100
}

func (g *GardenBloom) advance() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}

	switch g.phase {
	case Inhale:
		g.phase = Hold
		g.timer = g.clock.AfterFunc(HoldDuration, g.advance)
		g.mu.Unlock()
		return
	case Hold:
		g.phase = Exhale
		g.timer = g.clock.AfterFunc(ExhaleDuration, g.advance)
		g.mu.Unlock()
		return
	}

	// Exhale finished, one full cycle.
	g.cycles++
	if g.cycles < g.target {
		g.phase = Inhale
		g.timer = g.clock.AfterFunc(InhaleDuration, g.advance)
		g.mu.Unlock()
		return
	}

	g.stopped = true
	cycles := g.cycles
	done := g.complete
	g.mu.Unlock()

	done(domain.CompletionResult{Cycles: cycles, Completed: true})
}
