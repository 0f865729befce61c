package weather

import (
	"fmt"
	"time"
)

// FreezeThresholdF is the frost threshold. It sits 1°F above literal freezing
// to absorb sensor and report granularity.
const FreezeThresholdF = 33.0

// RecoveryMode selects how the recovery point is reported.
type RecoveryMode int

const (
	// RecoveryCompat reproduces the reference behavior: a recovery point is
	// reported only when strictly more than one observation ties at the
	// earliest qualifying time. Timestamps are unique after windowing, so in
	// practice this never reports one. Kept for compatibility; almost
	// certainly an off-by-one relative to the intended "at least one".
	RecoveryCompat RecoveryMode = iota
	// RecoveryCorrected reports the recovery point whenever at least one
	// qualifying observation exists.
	RecoveryCorrected
)

// RecoveryPoint is the first observation at/after the coldest hour whose
// temperature is back at or above the threshold.
type RecoveryPoint struct {
	TempF float64   `json:"temp_f"`
	Time  time.Time `json:"time"`
}

// FrostWindow characterizes the sub-freezing stretch leading up to and
// including the coldest observed hour, plus the recovery to a safe
// temperature if one is reported.
type FrostWindow struct {
	IsFreezing         bool           `json:"is_freezing"`
	FreezingHours      int            `json:"freezing_hours"`
	AvgLowDuringFreeze float64        `json:"avg_low_during_freeze"`
	FirstSafe          *RecoveryPoint `json:"first_safe,omitempty"`
}

// NewFrostWindow locates the coldest point, counts the sub-threshold hours up
// to it, and searches for the recovery point at or after it. It never fails
// on a non-empty sequence.
func NewFrostWindow(seq []Observation, mode RecoveryMode) (FrostWindow, error) {
	if len(seq) == 0 {
		return FrostWindow{}, ErrEmptySequence
	}

	freezing := false
	for _, o := range seq {
		if o.TempF <= FreezeThresholdF {
			freezing = true
			break
		}
	}
	if !freezing {
		return FrostWindow{}, nil
	}

	// Coldest observation; earliest wins on ties.
	coldest := seq[0]
	for _, o := range seq[1:] {
		if o.TempF < coldest.TempF {
			coldest = o
		}
	}

	// The freeze window is the sub-threshold stretch up to and including the
	// coldest point, not any later recurrence.
	var count int
	var sum float64
	for _, o := range seq {
		if o.TempF <= FreezeThresholdF && !o.Time.After(coldest.Time) {
			count++
			sum += o.TempF
		}
	}

	w := FrostWindow{
		IsFreezing:         true,
		FreezingHours:      count,
		AvgLowDuringFreeze: sum / float64(count),
	}

	// Recovery candidates: back at/above threshold, at/after the coldest
	// hour. Of those sharing the earliest time, how many there are decides
	// whether a recovery is reported at all, depending on mode.
	var earliest []Observation
	for _, o := range seq {
		if o.TempF < FreezeThresholdF || o.Time.Before(coldest.Time) {
			continue
		}
		switch {
		case len(earliest) == 0 || o.Time.Before(earliest[0].Time):
			earliest = earliest[:0]
			earliest = append(earliest, o)
		case o.Time.Equal(earliest[0].Time):
			earliest = append(earliest, o)
		}
	}

	report := false
	switch mode {
	case RecoveryCompat:
		report = len(earliest) > 1
	case RecoveryCorrected:
		report = len(earliest) > 0
	}
	if report {
		w.FirstSafe = &RecoveryPoint{TempF: earliest[0].TempF, Time: earliest[0].Time}
	}
	return w, nil
}

func (w FrostWindow) heading() string { return "Frost" }

func (w FrostWindow) lines(meta reportMeta) []string {
	if !w.IsFreezing {
		return []string{fmt.Sprintf("✅ No freezing temps in the next %d hours", meta.observedHours)}
	}
	msgs := []string{
		fmt.Sprintf("⚠️ %d hours of freezing temps in the next %d hours! 🥶", w.FreezingHours, meta.observedHours),
		fmt.Sprintf("❄️ Average low will be: %.1fF during that time!", w.AvgLowDuringFreeze),
	}
	if w.FirstSafe != nil {
		msgs = append(msgs, fmt.Sprintf("🌤️ Safe temperature of %vF reached at %s",
			w.FirstSafe.TempF, timestampString(w.FirstSafe.Time)))
	} else {
		msgs = append(msgs, fmt.Sprintf("🌤️ No safe temperatures in the next %d hours!", meta.observedHours))
	}
	return msgs
}

func (w FrostWindow) fields() map[string]any {
	f := map[string]any{
		"is_freezing":           w.IsFreezing,
		"freezing_hours":        w.FreezingHours,
		"avg_low_during_freeze": nil,
		"first_safe_temp":       nil,
		"first_safe_time":       nil,
	}
	if w.IsFreezing {
		f["avg_low_during_freeze"] = w.AvgLowDuringFreeze
	}
	if w.FirstSafe != nil {
		f["first_safe_temp"] = w.FirstSafe.TempF
		f["first_safe_time"] = w.FirstSafe.Time
	}
	return f
}
