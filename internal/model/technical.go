package model

// TechnicalScore holds the computed indicator readings for one tracked index.
// Composite is a fixed-weight blend of the directional signals, in [-1, 1].
// Volatility only scales confidence downstream, it never affects direction.
type TechnicalScore struct {
	Symbol     string
	RSI        float64 // 0 ~ 100
	RSISignal  float64 // (RSI-50)/50, -1 ~ 1
	MASignal   float64 // short MA vs long MA, -1 ~ 1
	Momentum   float64 // close vs close N periods back, -1 ~ 1
	Volatility float64 // normalized stddev of recent returns, 0 ~ 1
	Composite  float64 // -1 ~ 1
	Partial    bool    // series was shorter than the full lookback
}
