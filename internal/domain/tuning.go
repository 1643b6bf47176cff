package domain

// Tuning holds the thresholds and weights both engines read. It is loaded
// once at startup and treated as read-only; popular tags live elsewhere
// because they are the one mutable field.
type Tuning struct {
	// Per-feature statistics, keyed by scored feature.
	Averages    map[Feature]float64
	HighMarks   map[Feature]float64 // override: value >= average * high mark
	LowMarks    map[Feature]float64 // scoring skips value < average * low mark
	BaseFactors map[Feature]float64 // z-score divisor, default 1
	Importances map[Feature]float64 // z-score weight, default 0

	ComplimentCooldownDays int

	NudgeCooldownDays  int
	IdleDaysThreshold  float64
	KarmaDropThreshold float64
	ScoreThreshold     float64
	QuizzesThreshold   float64
	MaxNudgesPerUser   int
	IdleDaysWeight     float64
	KarmaWeight        float64
	ScoreWeight        float64
}

// Average returns the configured average for f, 0 when absent.
func (t Tuning) Average(f Feature) float64 { return t.Averages[f] }

// BaseFactor returns the scoring divisor for f, 1 when absent.
func (t Tuning) BaseFactor(f Feature) float64 {
	if v, ok := t.BaseFactors[f]; ok {
		return v
	}
	return 1
}

// Importance returns the scoring weight for f, 0 when absent.
func (t Tuning) Importance(f Feature) float64 { return t.Importances[f] }
