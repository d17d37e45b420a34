package models

import "math"

// epsilon distinguishes a genuinely zero percentage equivalent from
// floating-point noise; deltas below it never move a project.
const epsilon = 1e-9

// MonetaryValue resolves a forecast line into money against the project's
// contract amount. Percent items without a known base resolve to 0.
// Deductions contribute negatively. The same formula serves the toggle
// write path and the dashboard read path; they must never diverge.
func MonetaryValue(inputType ForecastInputType, value float64, isDeduction bool, amount *float64) float64 {
	var result float64
	switch inputType {
	case ForecastInputTypePercent:
		if amount == nil {
			return 0
		}
		result = *amount * value / 100
	case ForecastInputTypeAmount:
		result = value
	default:
		return 0
	}
	if isDeduction {
		result = -result
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}

// PercentValue resolves a forecast line into its percentage-of-contract
// equivalent. Unknown or zero contract amounts resolve to 0 (division guard).
func PercentValue(inputType ForecastInputType, value float64, isDeduction bool, amount *float64) float64 {
	if amount == nil || *amount == 0 {
		return 0
	}
	var result float64
	switch inputType {
	case ForecastInputTypePercent:
		result = value
	case ForecastInputTypeAmount:
		result = value / *amount * 100
	default:
		return 0
	}
	if isDeduction {
		result = -result
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}

// CalculateRemaining derives the outstanding balance. Either input being
// unknown makes the result unknown; status is clamped into [0,100] first.
func CalculateRemaining(amount *float64, status *float64) *float64 {
	if amount == nil || status == nil {
		return nil
	}
	s := clampStatus(*status)
	remaining := *amount * (1 - s/100)
	if math.IsNaN(remaining) || math.IsInf(remaining, 0) {
		return nil
	}
	return &remaining
}

// ApplyStatusDelta moves a project's completion status by percentEquiv,
// adding when completing and subtracting when un-completing, clamped to
// [0,100]. changed is false when clamping absorbed the whole delta.
//
// Clamping is deliberately lossy: completing a 20-point item at status 95
// saturates at 100, and un-completing it afterwards lands at 80, not 95.
func ApplyStatusDelta(current float64, percentEquiv float64, completing bool) (float64, bool) {
	delta := percentEquiv
	if !completing {
		delta = -percentEquiv
	}
	newStatus := clampStatus(current + delta)
	if math.Abs(newStatus-current) <= epsilon {
		return current, false
	}
	return newStatus, true
}

func clampStatus(status float64) float64 {
	return math.Max(0, math.Min(100, status))
}
