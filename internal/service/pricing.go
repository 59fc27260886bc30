package service

import (
	"fmt"
	"math"

	"resellscan/internal/models"
)

// Margin thresholds for the resale decision.
const (
	keepMarginThreshold = 0.25
	warnMarginThreshold = 0.10
)

// Decide applies the resale decision rules to an acquisition cost and a
// marketplace buy-box price. Margin is profit relative to the buy-box
// price; a zero buy-box price yields zero margin and a discard decision.
func Decide(cost, buyBoxPrice float64) (decision models.Recommendation, profit float64, margin string) {
	profit = roundCents(buyBoxPrice - cost)

	var ratio float64
	if buyBoxPrice > 0 {
		ratio = profit / buyBoxPrice
	}

	switch {
	case buyBoxPrice > 0 && ratio >= keepMarginThreshold:
		decision = models.RecommendationKeep
	case buyBoxPrice > 0 && ratio >= warnMarginThreshold:
		decision = models.RecommendationWarn
	default:
		decision = models.RecommendationDiscard
	}

	return decision, profit, formatMargin(ratio)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatMargin(ratio float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(ratio*100)))
}
