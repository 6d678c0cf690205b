// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"math"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	const nnbsp = "\u202f"
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0 CFA"},
		{500, "500 CFA"},
		{1500, "1" + nnbsp + "500 CFA"},
		{2500000, "2" + nnbsp + "500" + nnbsp + "000 CFA"},
		{12.5, "12,5 CFA"},
		{math.NaN(), "0 CFA"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatAmount(tt.amount); got != tt.want {
				t.Errorf("FormatAmount(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestTotalAmount(t *testing.T) {
	if got := TotalAmount(2500, 3); got != 7500 {
		t.Errorf("TotalAmount = %v, want 7500", got)
	}
	if got := TotalAmount(0.1, 3); got != 0.3 {
		t.Errorf("TotalAmount = %v, want 0.3", got)
	}
}
