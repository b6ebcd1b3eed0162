package domain

import "math"

// Capacity is derived from an event and its roster. It is never stored.
type Capacity struct {
	Filled      int  `json:"filled"`
	Remaining   int  `json:"remaining"`
	FillPct     int  `json:"fill_pct"`
	CanRegister bool `json:"can_register"`
}

// ComputeCapacity is the single source of truth for remaining quota and
// registration eligibility. Admission and display both call it.
func ComputeCapacity(e *Event, roster []*Participant) Capacity {
	filled := 0
	for _, p := range roster {
		if p.Status.Holds() {
			filled++
		}
	}
	remaining := e.Quota - filled
	if remaining < 0 {
		remaining = 0
	}
	pct := 0
	if e.Quota > 0 {
		pct = int(math.Round(float64(filled) / float64(e.Quota) * 100))
		if pct > 100 {
			pct = 100
		}
	}
	return Capacity{
		Filled:      filled,
		Remaining:   remaining,
		FillPct:     pct,
		CanRegister: e.Status == EventStatusPublished && remaining > 0,
	}
}
