package elo

import (
	"testing"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

func TestEloConverges(t *testing.T) {
	cfg := amas.DefaultConfig().Elo
	user := NewRating(cfg)
	word := NewRating(cfg)

	for i := 0; i < 20; i++ {
		UpdateElo(&user, &word, true, cfg)
	}
	if user.Rating <= cfg.DefaultElo {
		t.Errorf("expected user rating to rise above default, got %v", user.Rating)
	}
	if word.Rating >= cfg.DefaultElo {
		t.Errorf("expected word rating to fall below default, got %v", word.Rating)
	}
}

func TestZPDPriorityPeaksNearUser(t *testing.T) {
	cfg := amas.DefaultConfig().Elo
	userElo := 1200.0
	pClose := ZPDPriority(userElo, 1300.0, cfg)
	pFar := ZPDPriority(userElo, 1800.0, cfg)
	if pClose <= pFar {
		t.Errorf("expected closer word to have higher priority: close=%v far=%v", pClose, pFar)
	}
}

func TestRankByZPDSortsDescending(t *testing.T) {
	cfg := amas.DefaultConfig().Elo
	words := []WordElo{{WordID: "far", Elo: 2000}, {WordID: "near", Elo: 1250}}
	ranked := RankByZPD(1200.0, words, cfg)
	if ranked[0].WordID != "near" {
		t.Errorf("expected near word ranked first, got %q", ranked[0].WordID)
	}
}
