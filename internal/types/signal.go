package types

import "time"

// NoGoScore is the most conservative regime score.
const NoGoScore = -10

// RegimeSignal is the coarse market classification at a timestamp.
type RegimeSignal struct {
	Time      time.Time `yaml:"time" json:"time"`
	Score     int       `yaml:"score" json:"score"`
	Calm      bool      `yaml:"calm" json:"calm"`
	TrendUp   bool      `yaml:"trend_up" json:"trend_up"`
	TrendDown bool      `yaml:"trend_down" json:"trend_down"`
	// Reason is a short human readable tag for logs.
	Reason string `yaml:"reason" json:"reason"`
}

// NoGoSignal returns the conservative signal used when nothing is known.
func NoGoSignal(ts time.Time, reason string) RegimeSignal {
	return RegimeSignal{
		Time:   ts,
		Score:  NoGoScore,
		Reason: reason,
	}
}
