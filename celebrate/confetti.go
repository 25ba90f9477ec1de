// Package celebrate runs the confetti shown once an invitation has been
// delivered.
package celebrate

import (
	"context"
	"math/rand"
	"time"
)

// Burst is one confetti cannon firing.
type Burst struct {
	Particles int
	Angle     float64 // degrees, 90 is straight up
	Spread    float64 // degrees
	OriginX   float64 // 0..1 from the left edge
	OriginY   float64 // 0..1 from the top edge
	Gravity   float64
	Scalar    float64
}

// Shot is every burst fired at one tick.
type Shot struct {
	Elapsed time.Duration
	Bursts  []Burst
}

// Schedule controls how long confetti keeps firing.
type Schedule struct {
	Duration time.Duration
	Interval time.Duration
	// Rand picks the rain origins. Nil uses a time-seeded source.
	Rand *rand.Rand
}

const maxParticles = 50.0

var DefaultSchedule = Schedule{
	Duration: 4 * time.Second,
	Interval: 200 * time.Millisecond,
}

func inRange(r *rand.Rand, min, max float64) float64 {
	return r.Float64()*(max-min) + min
}

// ShotAt builds the shot fired with timeLeft of total remaining.
func ShotAt(r *rand.Rand, timeLeft, total time.Duration) Shot {
	count := maxParticles * float64(timeLeft) / float64(total)
	popper := int(count * 0.5)
	rain := int(count * 0.3)
	return Shot{
		Elapsed: total - timeLeft,
		Bursts: []Burst{
			{Particles: popper, Angle: 45, Spread: 60, OriginX: 0, OriginY: 0.8, Gravity: 1, Scalar: 1},
			{Particles: popper, Angle: 135, Spread: 60, OriginX: 1, OriginY: 0.8, Gravity: 1, Scalar: 1},
			{Particles: rain, Angle: 90, Spread: 100, OriginX: inRange(r, 0.1, 0.3), OriginY: 0, Gravity: 0.8, Scalar: 1.5},
			{Particles: rain, Angle: 90, Spread: 100, OriginX: inRange(r, 0.7, 0.9), OriginY: 0, Gravity: 0.8, Scalar: 1.5},
		},
	}
}

// Run fires one shot straight away and one per interval after that,
// until the duration is over or ctx is done. It returns the number of
// shots fired.
func Run(ctx context.Context, s Schedule, fire func(Shot)) int {
	if s.Duration <= 0 {
		s.Duration = DefaultSchedule.Duration
	}
	if s.Interval <= 0 {
		s.Interval = DefaultSchedule.Interval
	}
	r := s.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	start := time.Now()
	end := start.Add(s.Duration)
	fire(ShotAt(r, s.Duration, s.Duration))
	shots := 1

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	timer := time.NewTimer(s.Duration)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return shots
		case <-timer.C:
			return shots
		case now := <-ticker.C:
			left := end.Sub(now)
			if left <= 0 {
				return shots
			}
			fire(ShotAt(r, left, s.Duration))
			shots++
		}
	}
}
