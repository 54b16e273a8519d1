package tier

import (
	"errors"
	"sort"
	"time"

	"loyalty-system/internal/money"
	"loyalty-system/pkg/config"
)

var ErrInvalidLadder = errors.New("tier: ladder thresholds must be strictly increasing")

// Level is one rung of the membership ladder.
type Level struct {
	Name          string
	MinPoints     int64
	MultiplierBps uint32
	ValidityDays  int
}

// Ladder is the ordered set of levels, lowest threshold first. The bottom
// level must have MinPoints 0 so every member maps to a level.
type Ladder struct {
	levels []Level
}

// NewLadder validates and builds a ladder from configuration.
func NewLadder(cfgs []config.LevelConfig) (*Ladder, error) {
	if len(cfgs) == 0 {
		return nil, ErrInvalidLadder
	}
	levels := make([]Level, 0, len(cfgs))
	for _, c := range cfgs {
		mult := c.MultiplierBps
		if mult == 0 {
			mult = money.BpsDenominator
		}
		days := c.ValidityDays
		if days <= 0 {
			days = 365
		}
		levels = append(levels, Level{
			Name:          c.Name,
			MinPoints:     c.MinPoints,
			MultiplierBps: mult,
			ValidityDays:  days,
		})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].MinPoints < levels[j].MinPoints })
	if levels[0].MinPoints != 0 {
		return nil, ErrInvalidLadder
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].MinPoints <= levels[i-1].MinPoints {
			return nil, ErrInvalidLadder
		}
	}
	return &Ladder{levels: levels}, nil
}

// Base returns the bottom level.
func (l *Ladder) Base() Level { return l.levels[0] }

// Levels returns the ladder in ascending threshold order.
func (l *Ladder) Levels() []Level {
	out := make([]Level, len(l.levels))
	copy(out, l.levels)
	return out
}

// Lookup finds a level by name.
func (l *Ladder) Lookup(name string) (Level, bool) {
	for _, lvl := range l.levels {
		if lvl.Name == name {
			return lvl, true
		}
	}
	return Level{}, false
}

// LevelForPoints returns the highest level whose threshold is at or below the
// given lifetime points. An exact threshold match counts as reaching the tier.
func (l *Ladder) LevelForPoints(lifetimePoints int64) Level {
	best := l.levels[0]
	for _, lvl := range l.levels[1:] {
		if lifetimePoints >= lvl.MinPoints {
			best = lvl
		}
	}
	return best
}

func (l *Ladder) stepDown(current Level) Level {
	for i, lvl := range l.levels {
		if lvl.Name == current.Name {
			if i == 0 {
				return lvl
			}
			return l.levels[i-1]
		}
	}
	return l.levels[0]
}

// ComputeLevel derives a member's level. Pure: no clock reads, no state.
//
// A member whose level has expired decays exactly one step (never below the
// base level) and receives a fresh expiry from the decayed level's validity
// window. Otherwise the member holds the higher of their current level and
// the level their lifetime points have earned; an upgrade restarts the expiry
// window.
func (l *Ladder) ComputeLevel(lifetimePoints int64, now time.Time, currentName string, expiry *time.Time) (Level, time.Time) {
	current, ok := l.Lookup(currentName)
	if !ok {
		earned := l.LevelForPoints(lifetimePoints)
		return earned, freshExpiry(now, earned)
	}

	if expiry != nil && expiry.Before(now) {
		decayed := l.stepDown(current)
		if earned := l.LevelForPoints(lifetimePoints); earned.MinPoints > decayed.MinPoints {
			decayed = earned
		}
		return decayed, freshExpiry(now, decayed)
	}

	earned := l.LevelForPoints(lifetimePoints)
	if earned.MinPoints > current.MinPoints {
		return earned, freshExpiry(now, earned)
	}
	keep := now
	if expiry != nil {
		keep = *expiry
	} else {
		keep = freshExpiry(now, current)
	}
	return current, keep
}

func freshExpiry(now time.Time, lvl Level) time.Time {
	return now.AddDate(0, 0, lvl.ValidityDays)
}
