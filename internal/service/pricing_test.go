package service

import (
	"testing"

	"resellscan/internal/models"
)

func TestDecideKeep(t *testing.T) {
	decision, profit, margin := Decide(10.00, 20.00)
	if decision != models.RecommendationKeep {
		t.Errorf("expected keep, got %q", decision)
	}
	if profit != 10.00 {
		t.Errorf("expected profit 10.00, got %.2f", profit)
	}
	if margin != "50%" {
		t.Errorf("expected margin '50%%', got %q", margin)
	}
}

func TestDecideWarn(t *testing.T) {
	decision, profit, _ := Decide(17.00, 20.00)
	if decision != models.RecommendationWarn {
		t.Errorf("expected warn, got %q", decision)
	}
	if profit != 3.00 {
		t.Errorf("expected profit 3.00, got %.2f", profit)
	}
}

func TestDecideDiscardOnThinMargin(t *testing.T) {
	decision, _, _ := Decide(19.50, 20.00)
	if decision != models.RecommendationDiscard {
		t.Errorf("expected discard, got %q", decision)
	}
}

func TestDecideDiscardOnLoss(t *testing.T) {
	decision, profit, margin := Decide(25.00, 20.00)
	if decision != models.RecommendationDiscard {
		t.Errorf("expected discard, got %q", decision)
	}
	if profit != -5.00 {
		t.Errorf("expected negative profit, got %.2f", profit)
	}
	if margin != "-25%" {
		t.Errorf("expected margin '-25%%', got %q", margin)
	}
}

func TestDecideZeroBuyBox(t *testing.T) {
	decision, profit, margin := Decide(0, 0)
	if decision != models.RecommendationDiscard {
		t.Errorf("expected discard for zero buy box, got %q", decision)
	}
	if profit != 0 {
		t.Errorf("expected zero profit, got %.2f", profit)
	}
	if margin != "0%" {
		t.Errorf("expected margin '0%%', got %q", margin)
	}
}

func TestDecideRoundsProfitToCents(t *testing.T) {
	_, profit, _ := Decide(10.111, 20.555)
	if profit != 10.44 {
		t.Errorf("expected profit rounded to 10.44, got %.4f", profit)
	}
}
