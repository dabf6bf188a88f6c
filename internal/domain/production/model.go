package production

import "time"

// Run is one recorded manufacturing event.
type Run struct {
	ID            int64
	ProductName   string
	UnitCapacityG float64
	TotalUnits    int64
	CreatedAt     time.Time
}

// Requirement is one line of a feasibility check: how much of a material
// the run needs versus how much is on hand.
type Requirement struct {
	MaterialName string
	RequiredG    float64
	AvailableG   float64
}

func (r Requirement) Sufficient() bool { return r.AvailableG >= r.RequiredG }

// Plan is the phase-1 result. It is an explicit value the caller carries
// into Confirm; nothing is held in hidden session state.
type Plan struct {
	ProductName   string
	UnitCapacityG float64
	TotalUnits    int64
	Requirements  []Requirement
	Sufficient    bool
}

// Usage is one line of a run's detail view: per-unit rate and the total
// grams consumed, recomputed from the current formula.
type Usage struct {
	MaterialName string
	UsagePerUnit float64
	UsedG        float64
}
