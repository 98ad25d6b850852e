// Read-only views of coalition structure for reporting.
package engine

import (
	"strconv"
	"strings"

	"github.com/talgya/bubbles/internal/social"
)

// CoalitionSize pairs a coalition with its member count.
type CoalitionSize struct {
	ID   social.CoalitionID `json:"id"`
	Size int                `json:"size"`
}

// Snapshot captures the coalition structure after a round.
type Snapshot struct {
	Round  int             `json:"round"`
	Stats  RoundStats      `json:"stats"`
	Active []CoalitionSize `json:"active"` // Non-empty coalitions in ID order
}

// Snapshot records the current non-empty coalitions.
func (w *World) Snapshot(stats RoundStats) Snapshot {
	snap := Snapshot{Round: stats.Round, Stats: stats}
	for _, c := range w.Coalitions {
		if n := c.Len(); n > 0 {
			snap.Active = append(snap.Active, CoalitionSize{ID: c.ID, Size: n})
		}
	}
	return snap
}

// ActiveCount returns the number of non-empty coalitions.
func (s Snapshot) ActiveCount() int { return len(s.Active) }

// Sizes returns member counts of the active coalitions in ID order.
func (s Snapshot) Sizes() []int {
	sizes := make([]int, len(s.Active))
	for i, c := range s.Active {
		sizes[i] = c.Size
	}
	return sizes
}

// MeanSize returns the average active coalition size.
func (s Snapshot) MeanSize() float64 {
	if len(s.Active) == 0 {
		return 0
	}
	total := 0
	for _, c := range s.Active {
		total += c.Size
	}
	return float64(total) / float64(len(s.Active))
}

// Largest returns the size of the biggest coalition.
func (s Snapshot) Largest() int {
	largest := 0
	for _, c := range s.Active {
		if c.Size > largest {
			largest = c.Size
		}
	}
	return largest
}

// Singletons returns how many households are alone.
func (s Snapshot) Singletons() int {
	n := 0
	for _, c := range s.Active {
		if c.Size == 1 {
			n++
		}
	}
	return n
}

// String renders the sizes as "Coalition sizes: ( 3 1 1 )".
func (s Snapshot) String() string {
	var b strings.Builder
	b.WriteString("Coalition sizes: ( ")
	for _, c := range s.Active {
		b.WriteString(strconv.Itoa(c.Size))
		b.WriteByte(' ')
	}
	b.WriteString(")")
	return b.String()
}
