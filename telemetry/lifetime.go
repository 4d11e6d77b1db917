package telemetry

import "github.com/pthm-cable/clique/components"

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	BirthTick int32
	Kind      components.Kind

	// Decisions
	Moves int
	Stays int

	// Neighborhood at decision time
	CrowdedTicks  int
	KinTicks      int // nearest neighbor shared the agent's kind
	IsolatedTicks int
}

// KinShare returns the fraction of decisions made next to kin.
func (s *LifetimeStats) KinShare() float64 {
	n := s.Moves + s.Stays
	if n == 0 {
		return 0
	}
	return float64(s.KinTicks) / float64(n)
}

// LifetimeRecord is one row of lifetimes.csv, written when an agent is replaced.
type LifetimeRecord struct {
	ID        uint32  `csv:"id"`
	Kind      string  `csv:"kind"`
	BirthTick int32   `csv:"birth_tick"`
	EndTick   int32   `csv:"end_tick"`
	Moves     int     `csv:"moves"`
	Stays     int     `csv:"stays"`
	Crowded   int     `csv:"crowded_ticks"`
	Kin       int     `csv:"kin_ticks"`
	Isolated  int     `csv:"isolated_ticks"`
	KinShare  float64 `csv:"kin_share"`
}

// Record converts the stats of agent id for output.
func (s *LifetimeStats) Record(id uint32, endTick int32) LifetimeRecord {
	return LifetimeRecord{
		ID:        id,
		Kind:      s.Kind.String(),
		BirthTick: s.BirthTick,
		EndTick:   endTick,
		Moves:     s.Moves,
		Stays:     s.Stays,
		Crowded:   s.CrowdedTicks,
		Kin:       s.KinTicks,
		Isolated:  s.IsolatedTicks,
		KinShare:  s.KinShare(),
	}
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new agent.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, kind components.Kind) {
	lt.stats[id] = &LifetimeStats{BirthTick: birthTick, Kind: kind}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes an agent's stats and returns them (for logging).
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// Outcome is what one decision looked like from the agent's side.
type Outcome struct {
	Stayed   bool
	Crowded  bool
	Kin      bool
	Isolated bool
}

// RecordDecision adds one tick's decision to an agent's totals.
func (lt *LifetimeTracker) RecordDecision(id uint32, o Outcome) {
	s := lt.stats[id]
	if s == nil {
		return
	}
	if o.Stayed {
		s.Stays++
	} else {
		s.Moves++
	}
	if o.Crowded {
		s.CrowdedTicks++
	}
	if o.Kin {
		s.KinTicks++
	}
	if o.Isolated {
		s.IsolatedTicks++
	}
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
