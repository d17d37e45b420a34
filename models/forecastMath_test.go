package models

import (
	"math"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestMonetaryValue(t *testing.T) {
	tests := []struct {
		name        string
		inputType   ForecastInputType
		value       float64
		isDeduction bool
		amount      *float64
		want        float64
	}{
		{"percent of amount", ForecastInputTypePercent, 10, false, floatPtr(200000), 20000},
		{"percent without base", ForecastInputTypePercent, 10, false, nil, 0},
		{"amount passes through", ForecastInputTypeAmount, 5000, false, floatPtr(200000), 5000},
		{"amount without base", ForecastInputTypeAmount, 5000, false, nil, 5000},
		{"percent deduction flips sign", ForecastInputTypePercent, 10, true, floatPtr(200000), -20000},
		{"amount deduction flips sign", ForecastInputTypeAmount, 5000, true, nil, -5000},
		{"zero percent", ForecastInputTypePercent, 0, false, floatPtr(200000), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonetaryValue(tt.inputType, tt.value, tt.isDeduction, tt.amount)
			if !almostEqual(got, tt.want) {
				t.Errorf("MonetaryValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentValue(t *testing.T) {
	tests := []struct {
		name        string
		inputType   ForecastInputType
		value       float64
		isDeduction bool
		amount      *float64
		want        float64
	}{
		{"percent passes through", ForecastInputTypePercent, 25, false, floatPtr(100000), 25},
		{"amount against base", ForecastInputTypeAmount, 25000, false, floatPtr(100000), 25},
		{"nil base resolves to zero", ForecastInputTypePercent, 25, false, nil, 0},
		{"zero base resolves to zero", ForecastInputTypeAmount, 25000, false, floatPtr(0), 0},
		{"deduction flips sign", ForecastInputTypeAmount, 25000, true, floatPtr(100000), -25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentValue(tt.inputType, tt.value, tt.isDeduction, tt.amount)
			if !almostEqual(got, tt.want) {
				t.Errorf("PercentValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateRemaining(t *testing.T) {
	tests := []struct {
		name   string
		amount *float64
		status *float64
		want   *float64
	}{
		{"half done", floatPtr(100000), floatPtr(50), floatPtr(50000)},
		{"untouched", floatPtr(100000), floatPtr(0), floatPtr(100000)},
		{"complete", floatPtr(100000), floatPtr(100), floatPtr(0)},
		{"status above range clamps", floatPtr(100000), floatPtr(150), floatPtr(0)},
		{"status below range clamps", floatPtr(100000), floatPtr(-10), floatPtr(100000)},
		{"unknown amount", nil, floatPtr(50), nil},
		{"unknown status", floatPtr(100000), nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRemaining(tt.amount, tt.status)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("CalculateRemaining() = %v, want %v", got, tt.want)
			}
			if got != nil && !almostEqual(*got, *tt.want) {
				t.Errorf("CalculateRemaining() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestApplyStatusDelta(t *testing.T) {
	tests := []struct {
		name        string
		current     float64
		percent     float64
		completing  bool
		wantStatus  float64
		wantChanged bool
	}{
		{"complete adds", 40, 20, true, 60, true},
		{"uncomplete subtracts", 60, 20, false, 40, true},
		{"clamps at 100", 95, 20, true, 100, true},
		{"clamps at 0", 5, 20, false, 0, true},
		{"negligible delta is a no-op", 50, 1e-12, true, 50, false},
		{"zero delta is a no-op", 50, 0, true, 50, false},
		{"already at ceiling", 100, 20, true, 100, false},
		{"already at floor", 0, 20, false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := ApplyStatusDelta(tt.current, tt.percent, tt.completing)
			if !almostEqual(got, tt.wantStatus) || changed != tt.wantChanged {
				t.Errorf("ApplyStatusDelta() = (%v, %v), want (%v, %v)", got, changed, tt.wantStatus, tt.wantChanged)
			}
		})
	}
}

// Saturation is lossy on purpose: the uncomplete after a clamped complete
// lands below the original status.
func TestApplyStatusDeltaSaturationAsymmetry(t *testing.T) {
	afterComplete, changed := ApplyStatusDelta(95, 20, true)
	if !changed || !almostEqual(afterComplete, 100) {
		t.Fatalf("complete from 95 by 20 = %v (changed=%v), want 100", afterComplete, changed)
	}
	afterUncomplete, changed := ApplyStatusDelta(afterComplete, 20, false)
	if !changed || !almostEqual(afterUncomplete, 80) {
		t.Fatalf("uncomplete from 100 by 20 = %v (changed=%v), want 80", afterUncomplete, changed)
	}
}

// The dashboard and toggle paths must resolve identical money for the same
// line, whichever way the line is expressed.
func TestMonetaryValueMatchesPercentValue(t *testing.T) {
	amount := floatPtr(80000)
	for _, value := range []float64{0, 12.5, 100, 250} {
		money := MonetaryValue(ForecastInputTypePercent, value, false, amount)
		pct := PercentValue(ForecastInputTypeAmount, money, false, amount)
		if !almostEqual(pct, value) {
			t.Errorf("round trip for %v%% gave %v%%", value, pct)
		}
	}
}
