package core

import "math"

// Financial calculators backing the tools endpoints. Inputs arrive as free
// form decimals from the UI, so these work in float64 and leave rounding to
// the presentation layer.

// CompoundInterest returns the future value of principal after years at the
// given annual rate (percent), compounded yearly.
func CompoundInterest(principal, annualRatePct, years float64) (float64, error) {
	if principal <= 0 || annualRatePct <= 0 || years <= 0 {
		return 0, ErrInvalidAmount
	}
	return principal * math.Pow(1+annualRatePct/100, years), nil
}

// LoanEMI returns the fixed monthly installment for a loan of principal over
// tenureYears at the given annual rate (percent).
func LoanEMI(principal, annualRatePct, tenureYears float64) (float64, error) {
	if principal <= 0 || annualRatePct <= 0 || tenureYears <= 0 {
		return 0, ErrInvalidAmount
	}
	r := annualRatePct / (12 * 100)
	n := tenureYears * 12
	f := math.Pow(1+r, n)
	return principal * r * f / (f - 1), nil
}

// MonthsToGoal returns how many whole months of contributions are needed to
// close the gap between current savings and the target.
func MonthsToGoal(target, current, monthlyContribution float64) (int, error) {
	if target <= 0 || monthlyContribution <= 0 || current < 0 {
		return 0, ErrInvalidAmount
	}
	remaining := target - current
	if remaining <= 0 {
		return 0, nil
	}
	return int(math.Ceil(remaining / monthlyContribution)), nil
}
