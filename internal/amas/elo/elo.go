// Package elo implements the learner/word ELO rating pair and the
// zone-of-proximal-development (ZPD) priority score the word selector
// uses to prefer words that are neither trivial nor hopeless for the
// current learner.
package elo

import (
	"math"
	"sort"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

// Rating is one ELO participant's rating and game count; a learner and a
// word each carry their own Rating.
type Rating struct {
	Rating float64 `json:"rating"`
	Games  uint32  `json:"games"`
}

// NewRating returns a fresh rating at the configured default.
func NewRating(cfg amas.EloConfig) Rating {
	return Rating{Rating: cfg.DefaultElo}
}

func expectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, (ratingB-ratingA)/400.0))
}

// UpdateElo applies one correct/incorrect observation to both the
// learner's and the word's ratings, with a higher K-factor for
// newcomers on either side so early games move their rating faster. It
// returns the updated (userRating, wordRating) for convenience.
func UpdateElo(user, word *Rating, isCorrect bool, cfg amas.EloConfig) (float64, float64) {
	expectedUser := expectedScore(user.Rating, word.Rating)
	actual := 0.0
	if isCorrect {
		actual = 1.0
	}

	kUser := cfg.KFactor
	if user.Games < cfg.NoviceGameThreshold {
		kUser = cfg.KFactor * cfg.NoviceKMultiplier
	}
	kWord := cfg.KFactor * cfg.WordKFactorRatio
	if word.Games < cfg.NoviceGameThreshold {
		kWord = cfg.KFactor * cfg.NoviceKMultiplier * cfg.WordKFactorRatio
	}

	user.Rating = clampRange(user.Rating+kUser*(actual-expectedUser), cfg.MinElo, cfg.MaxElo)
	word.Rating = clampRange(word.Rating+kWord*(expectedUser-actual), cfg.MinElo, cfg.MaxElo)

	user.Games++
	word.Games++

	return user.Rating, word.Rating
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ZPDPriority scores how squarely wordElo falls inside the learner's zone
// of proximal development: a Gaussian centered at userElo+ZPDOptimalOffset,
// so words rated that far above the learner score highest.
func ZPDPriority(userElo, wordElo float64, cfg amas.EloConfig) float64 {
	signedDistance := wordElo - userElo - cfg.ZPDOptimalOffset
	return math.Exp(-(signedDistance * signedDistance) / (2.0 * cfg.ZPDGaussianSigma * cfg.ZPDGaussianSigma))
}

// WordElo is one word's current ELO rating, the input to RankByZPD.
type WordElo struct {
	WordID string
	Elo    float64
}

// WordPriority is one word's ZPD-ranked priority, RankByZPD's output.
type WordPriority struct {
	WordID   string
	Priority float64
}

// RankByZPD sorts words by ZPD priority, best (closest to the learner's
// zone of proximal development) first.
func RankByZPD(userElo float64, words []WordElo, cfg amas.EloConfig) []WordPriority {
	ranked := make([]WordPriority, len(words))
	for i, w := range words {
		ranked[i] = WordPriority{WordID: w.WordID, Priority: ZPDPriority(userElo, w.Elo, cfg)}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Priority > ranked[j].Priority })
	return ranked
}
