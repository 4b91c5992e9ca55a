package progress

import (
	"sort"

	"github.com/rpggio/pairs/internal/domain/scoring"
)

// SelectableLevels is the size of the level-select grid.
const SelectableLevels = 50

// MaxListedLevels caps the grid a caller may request.
const MaxListedLevels = 1000

// Ledger is the durable record of unlocked levels and best ratings.
type Ledger struct {
	CurrentLevel int         `json:"currentLevel"`
	BestStars    map[int]int `json:"bestStars"`
}

// LevelStatus is one cell of the level-select grid.
type LevelStatus struct {
	Level    int  `json:"level"`
	Unlocked bool `json:"unlocked"`
	Stars    int  `json:"stars"`
}

// NewLedger returns a ledger with only level 1 unlocked.
func NewLedger() *Ledger {
	return &Ledger{CurrentLevel: 1, BestStars: map[int]int{}}
}

// RecordCompletion keeps the best rating for level and unlocks the next one.
func (l *Ledger) RecordCompletion(level, stars int) {
	if l.BestStars == nil {
		l.BestStars = map[int]int{}
	}
	stars = scoring.ClampStars(stars)
	if stars > l.BestStars[level] {
		l.BestStars[level] = stars
	}
	if level >= l.CurrentLevel {
		l.CurrentLevel = level + 1
	}
}

// Reset forgets all progress.
func (l *Ledger) Reset() {
	l.CurrentLevel = 1
	l.BestStars = map[int]int{}
}

// IsUnlocked reports whether level can be played.
func (l *Ledger) IsUnlocked(level int) bool {
	return level >= 1 && level <= l.CurrentLevel
}

// TotalStars sums the best rating of every completed level.
func (l *Ledger) TotalStars() int {
	total := 0
	for _, stars := range l.BestStars {
		total += stars
	}
	return total
}

// CompletedLevels returns the completed levels in ascending order.
func (l *Ledger) CompletedLevels() []int {
	levels := make([]int, 0, len(l.BestStars))
	for level := range l.BestStars {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// Levels builds the first n cells of the level-select grid, at most
// MaxListedLevels.
func (l *Ledger) Levels(n int) []LevelStatus {
	n = max(0, min(n, MaxListedLevels))
	out := make([]LevelStatus, n)
	for i := range out {
		level := i + 1
		out[i] = LevelStatus{
			Level:    level,
			Unlocked: l.IsUnlocked(level),
			Stars:    l.BestStars[level],
		}
	}
	return out
}

// Merge folds other into l, keeping the furthest level and the best stars.
func (l *Ledger) Merge(other *Ledger) {
	l.CurrentLevel = max(l.CurrentLevel, other.CurrentLevel)
	for level, stars := range other.BestStars {
		l.BestStars[level] = max(l.BestStars[level], stars)
	}
}

// Clone returns a deep copy.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{CurrentLevel: l.CurrentLevel, BestStars: make(map[int]int, len(l.BestStars))}
	for level, stars := range l.BestStars {
		out.BestStars[level] = stars
	}
	return out
}

// normalize repairs a decoded ledger so its invariants hold.
func (l *Ledger) normalize() {
	if l.CurrentLevel < 1 {
		l.CurrentLevel = 1
	}
	if l.BestStars == nil {
		l.BestStars = map[int]int{}
	}
	for level, stars := range l.BestStars {
		if level < 1 || stars < 1 {
			delete(l.BestStars, level)
			continue
		}
		l.BestStars[level] = scoring.ClampStars(stars)
	}
}
