package stock

import (
	"math"
	"testing"
)

func TestToNumber(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"numericString", "30", 30},
		{"junkString", "abc", 0},
		{"nil", nil, 0},
		{"nan", math.NaN(), 0},
		{"posInf", math.Inf(1), 0},
		{"negInf", math.Inf(-1), 0},
		{"negative", -4.0, -4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToNumber(tc.input); got != tc.want {
				t.Fatalf("ToNumber(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestPositiveOrZero(t *testing.T) {
	if got := PositiveOrZero(-3.0); got != 0 {
		t.Fatalf("expected negative input to clamp to 0, got %v", got)
	}
	if got := PositiveOrZero(3.5); got != 3.5 {
		t.Fatalf("expected positive input unchanged, got %v", got)
	}
	if got := PositiveOrZero("not-a-number"); got != 0 {
		t.Fatalf("expected junk input to normalize to 0, got %v", got)
	}
}

func TestLowStockThreshold(t *testing.T) {
	if got := LowStockThreshold(30); got != 6 {
		t.Fatalf("threshold for 30 = %v, want 6", got)
	}
	if got := LowStockThreshold(0); got != 0 {
		t.Fatalf("threshold for 0 = %v, want 0", got)
	}
	// 0.2 * 0.3 has no exact binary representation; decimal math keeps it exact.
	if got := LowStockThreshold(0.3); got != 0.06 {
		t.Fatalf("threshold for 0.3 = %v, want 0.06", got)
	}
}

func TestIsLow(t *testing.T) {
	if !IsLow(5, 30) {
		t.Fatal("5 of 30/month should be low (threshold 6)")
	}
	if IsLow(6, 30) {
		t.Fatal("6 of 30/month sits exactly at threshold and is not low")
	}
	if IsLow(50, 30) {
		t.Fatal("50 of 30/month should not be low")
	}
}

func TestDeductAndRequiredQty(t *testing.T) {
	if got := RequiredQty(2, 4); got != 8 {
		t.Fatalf("RequiredQty(2,4) = %v, want 8", got)
	}
	if got := Deduct(10, 8); got != 2 {
		t.Fatalf("Deduct(10,8) = %v, want 2", got)
	}
	if got := Deduct(0.3, 0.1); got != 0.2 {
		t.Fatalf("Deduct(0.3,0.1) = %v, want 0.2", got)
	}
}
