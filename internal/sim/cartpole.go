// Package sim is a small host simulation that drives a policy once per tick.
//
// The cart-pole-lite task is a one-dimensional balancing problem: the
// observation is the cart position and velocity, the action is a single
// force clamped to [-1, 1], and an episode ends when |x| > 2 or after a
// fixed number of steps.
package sim

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Policy maps an observation to an action. The returned slice may be
// reused by the policy after the next call.
type Policy interface {
	Step(observation []float32) ([]float32, error)
}

// Tick is one simulation step, as written to trace files.
type Tick struct {
	Episode  int     `csv:"episode"`
	Step     int     `csv:"step"`
	Position float64 `csv:"position"`
	Velocity float64 `csv:"velocity"`
	Force    float64 `csv:"force"`
	Reward   float64 `csv:"reward"`
}

// Result summarizes a run.
type Result struct {
	Mode            string
	Episodes        int
	StepsPerEpisode int
	StepsSurvived   int
	AvgReward       float64
}

// Mode selects the start positions and episode length.
type Mode struct {
	Name            string
	StartPositions  []float64
	StepsPerEpisode int
}

// ModeFor returns a named mode: "gt" (default), "validation" or "test".
func ModeFor(name string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "", "gt":
		return Mode{Name: "gt", StartPositions: []float64{-0.8, -0.4, 0.0, 0.4, 0.8}, StepsPerEpisode: 60}, nil
	case "validation":
		return Mode{Name: "validation", StartPositions: []float64{-1.0, -0.5, 0.5, 1.0}, StepsPerEpisode: 48}, nil
	case "test":
		return Mode{Name: "test", StartPositions: []float64{-1.2, -0.6, 0.0, 0.6, 1.2}, StepsPerEpisode: 48}, nil
	default:
		return Mode{}, fmt.Errorf("unsupported cart-pole-lite mode: %s", name)
	}
}

// Run plays every episode of mode against policy. onTick, if non-nil, is
// called after each step; maxTicks > 0 stops the run early.
func Run(ctx context.Context, policy Policy, mode Mode, maxTicks int, onTick func(Tick) error) (Result, error) {
	result := Result{
		Mode:            mode.Name,
		Episodes:        len(mode.StartPositions),
		StepsPerEpisode: mode.StepsPerEpisode,
	}
	observation := make([]float32, 2)
	totalReward := 0.0

episodes:
	for episode, start := range mode.StartPositions {
		x, v := start, 0.0

		for step := range mode.StepsPerEpisode {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if maxTicks > 0 && result.StepsSurvived >= maxTicks {
				break episodes
			}

			observation[0], observation[1] = float32(x), float32(v)
			action, err := policy.Step(observation)
			if err != nil {
				return result, fmt.Errorf("episode %d step %d: %w", episode, step, err)
			}
			if len(action) != 1 {
				return result, fmt.Errorf("cart-pole-lite requires one output, got %d", len(action))
			}
			force := float64(action[0])

			var reward float64
			x, v, reward = Advance(x, v, force)
			totalReward += reward
			result.StepsSurvived++

			if onTick != nil {
				tick := Tick{Episode: episode, Step: step, Position: x, Velocity: v, Force: force, Reward: reward}
				if err := onTick(tick); err != nil {
					return result, err
				}
			}
			if math.Abs(x) > 2.0 {
				break
			}
		}
	}

	if result.StepsSurvived > 0 {
		result.AvgReward = totalReward / float64(result.StepsSurvived)
	}
	return result, nil
}

// Advance integrates one step of the cart dynamics.
func Advance(x, v, force float64) (nextX, nextV, reward float64) {
	const (
		dt       = 0.1
		kPos     = 0.45
		kVel     = 0.15
		forceK   = 1.25
		maxForce = 1.0
	)
	force = max(-maxForce, min(maxForce, force))

	acc := forceK*force - kPos*x - kVel*v
	v += acc * dt
	x += v * dt
	reward = 1.0 - math.Min(1.0, math.Abs(x)/2.0)
	return x, v, reward
}
