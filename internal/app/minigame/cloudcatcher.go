package minigame

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// CloudCountdown is the fixed cloud-catcher round length in seconds.
const CloudCountdown = 30

// CloudCount returns how many clouds spawn for a difficulty.
func CloudCount(d domain.Difficulty) int {
	switch d {
	case domain.Medium:
		return 8
	case domain.Expert:
		return 12
	default:
		return 5
	}
}

// Cloud is one catchable cloud. Caught is a terminal per-cloud state.
type Cloud struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Caught bool    `json:"caught"`
}

// CloudCatcher runs the cloud-catcher loop: N clouds spawn at once, a
// 30-second countdown ticks concurrently, and reaching zero force-completes
// with the current score regardless of clouds remaining.
type CloudCatcher struct {
	mu       sync.Mutex
	clock    Clock
	complete func(domain.CompletionResult)

	clouds   []Cloud
	score    int
	timeLeft int
	tick     Timer
	stopped  bool
}

// NewCloudCatcher spawns clouds for the difficulty. The rng places clouds in
// the 300×200 play field; scoring does not depend on position.
func NewCloudCatcher(clock Clock, rng *rand.Rand, difficulty domain.Difficulty, complete func(domain.CompletionResult)) *CloudCatcher {
	n := CloudCount(difficulty)
	clouds := make([]Cloud, n)
	for i := range clouds {
		clouds[i] = Cloud{ID: i, X: rng.Float64() * 300, Y: rng.Float64() * 200}
	}
	return &CloudCatcher{
		clock:    clock,
		complete: complete,
		clouds:   clouds,
		timeLeft: CloudCountdown,
	}
}

// Start arms the one-second countdown.
func (c *CloudCatcher) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.tick = c.clock.AfterFunc(time.Second, c.onTick)
}

// Stop makes all future timer callbacks inert. Idempotent.
func (c *CloudCatcher) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.tick != nil {
		c.tick.Stop()
	}
}

// Catch marks a cloud caught and scores one point. Returns false for an
// unknown id, an already-caught cloud, or a finished round.
func (c *CloudCatcher) Catch(cloudID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.timeLeft <= 0 {
		return false
	}
	for i := range c.clouds {
		if c.clouds[i].ID == cloudID {
			if c.clouds[i].Caught {
				return false
			}
			c.clouds[i].Caught = true
			c.score++
			return true
		}
	}
	return false
}

// Score returns the current catch count.
func (c *CloudCatcher) Score() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}

// TimeLeft returns the remaining countdown seconds.
func (c *CloudCatcher) TimeLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLeft
}

// Clouds returns a snapshot of the cloud field.
func (c *CloudCatcher) Clouds() []Cloud {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Cloud, len(c.clouds))
	copy(out, c.clouds)
	return out
}

func (c *CloudCatcher) onTick() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.timeLeft--
	if c.timeLeft > 0 {
		c.tick = c.clock.AfterFunc(time.Second, c.onTick)
		c.mu.Unlock()
		return
	}
	c.stopped = true
	score := c.score
	done := c.complete
	c.mu.Unlock()

	done(domain.CompletionResult{Score: score, Completed: true})
}
