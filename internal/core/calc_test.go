package core

import (
	"math"
	"testing"
)

func TestCompoundInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     float64
		want      float64
		wantErr   bool
	}{
		{"ten years at five percent", 10000, 5, 10, 16288.946267774414, false},
		{"one year", 1000, 10, 1, 1100, false},
		{"zero principal", 0, 5, 10, 0, true},
		{"negative rate", 1000, -1, 10, 0, true},
		{"zero years", 1000, 5, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompoundInterest(tt.principal, tt.rate, tt.years)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CompoundInterest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("CompoundInterest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoanEMI(t *testing.T) {
	got, err := LoanEMI(50000, 8, 5)
	if err != nil {
		t.Fatalf("LoanEMI() error = %v", err)
	}
	// 50k over 5 years at 8% is about 1013.82/month.
	if math.Abs(got-1013.82) > 0.01 {
		t.Errorf("LoanEMI() = %v, want ~1013.82", got)
	}

	if _, err := LoanEMI(0, 8, 5); err == nil {
		t.Error("LoanEMI() should reject zero principal")
	}
	if _, err := LoanEMI(50000, 0, 5); err == nil {
		t.Error("LoanEMI() should reject zero rate")
	}
}

func TestMonthsToGoal(t *testing.T) {
	tests := []struct {
		name    string
		target  float64
		current float64
		monthly float64
		want    int
		wantErr bool
	}{
		{"exact division", 20000, 5000, 500, 30, false},
		{"rounds up", 20000, 5000, 400, 38, false},
		{"already reached", 20000, 20000, 500, 0, false},
		{"over target", 20000, 25000, 500, 0, false},
		{"zero monthly", 20000, 5000, 0, 0, true},
		{"negative current", 20000, -1, 500, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthsToGoal(tt.target, tt.current, tt.monthly)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MonthsToGoal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("MonthsToGoal() = %d, want %d", got, tt.want)
			}
		})
	}
}
