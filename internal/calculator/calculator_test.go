package calculator

import (
	"math"
	"testing"
)

func risingCloses(n int, start, end float64) []float64 {
	closes := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}

func TestCalculateSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	sma, err := CalculateSMA(prices, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 4 {
		t.Errorf("expected SMA 4, got %.2f", sma)
	}

	if _, err := CalculateSMA(prices, 10); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA(prices, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateRSI_MonotonicRiseIs100(t *testing.T) {
	closes := risingCloses(20, 100, 120)
	rsi, err := CalculateRSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected RSI 100 for a series with no losses, got %.2f", rsi)
	}
}

func TestCalculateRSI_AlwaysBounded(t *testing.T) {
	// Deterministic zig-zag series
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		if i%3 == 0 {
			price *= 1.02
		} else {
			price *= 0.99
		}
		closes[i] = price
	}
	rsi, err := CalculateRSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI out of bounds: %.2f", rsi)
	}
}

func TestCalculateRSI_ShortSeriesDefaultsToNeutral(t *testing.T) {
	rsi, err := CalculateRSI([]float64{100, 101, 102}, 14)
	if err != nil {
		t.Fatalf("short series must not fail: %v", err)
	}
	if rsi != 50 {
		t.Errorf("expected neutral RSI 50, got %.2f", rsi)
	}
}

func TestCalculateMomentum(t *testing.T) {
	closes := risingCloses(20, 100, 120)
	mom, err := CalculateMomentum(closes, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mom <= 0 {
		t.Errorf("expected positive momentum for rising series, got %.4f", mom)
	}

	if _, err := CalculateMomentum([]float64{100, 101}, 10); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestCalculateVolatility(t *testing.T) {
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 100
	}
	vol, err := CalculateVolatility(flat, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vol != 0 {
		t.Errorf("expected zero volatility for flat series, got %.6f", vol)
	}

	choppy := make([]float64, 30)
	price := 100.0
	for i := range choppy {
		if i%2 == 0 {
			price *= 1.03
		} else {
			price *= 0.97
		}
		choppy[i] = price
	}
	vol2, err := CalculateVolatility(choppy, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vol2 <= 0 || math.IsNaN(vol2) {
		t.Errorf("expected positive volatility, got %.6f", vol2)
	}
}
