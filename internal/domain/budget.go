package domain

// FrameBudget is the maximum commit duration (ms) that preserves a
// target refresh rate. All jank and threshold computations are
// parametric in this value.
type FrameBudget float64

const (
	Budget60Hz  FrameBudget = 16.7
	Budget120Hz FrameBudget = 8.3
)

// BudgetForHz maps a refresh rate to its preset budget. Unknown rates
// fall back to the 60Hz preset.
func BudgetForHz(hz int) FrameBudget {
	if hz == 120 {
		return Budget120Hz
	}
	return Budget60Hz
}

// Ms returns the budget as plain milliseconds.
func (b FrameBudget) Ms() float64 { return float64(b) }
