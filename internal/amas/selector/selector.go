// Package selector scores and ranks a batch of candidate words once the
// engine has decided a StrategyParams for the round, blending each word's
// zone-of-proximal-development fit (new words) or recall risk (review
// words) with a handful of contextual bonuses, then interleaves new and
// review words in proportion to the strategy's new-word ratio.
//
// This package is deliberately store-agnostic: it takes already-fetched
// word/elo/mastery data as plain maps so it stays unit-testable without a
// database, leaving all persistence lookups to the engine.
package selector

import (
	"math"
	"sort"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
	"github.com/Heartcoolman/wordforge-sub000/internal/amas/memory"
)

// WordMeta is the subset of a word's catalog metadata the scorer needs.
type WordMeta struct {
	WordID     string
	Difficulty float64
}

// ScoredWord is one candidate's final score and provenance, returned in
// the batch's selected order.
type ScoredWord struct {
	WordID string  `json:"wordId"`
	Score  float64 `json:"score"`
	IsNew  bool    `json:"isNew"`
}

// SessionContext carries the per-round contextual signals the scorer
// folds in on top of the base recall-risk/ZPD score.
type SessionContext struct {
	ErrorProneWordIDs        map[string]bool
	RecentlyMasteredWordIDs  map[string]bool
	// TemporalBoost scales the strategy's new-word ratio for this round
	// (see internal/amas/engine's temporal-profile boost); 1.0 is neutral.
	TemporalBoost float64
}

// CandidateData is everything Select needs about one candidate word,
// pre-fetched by the caller in a single batch round-trip.
type CandidateData struct {
	Meta WordMeta
	// WordElo is the word's global ELO rating; zero if never rated.
	WordElo float64
	// Attempted is false for a word the learner has never reviewed (a
	// "new" word); true selects the review-scoring branch.
	Attempted bool
	// TotalAttempts is the learner's attempt count against this word, used
	// for the review-branch UCB explore bonus. Meaningless if !Attempted.
	TotalAttempts uint32
	// Mdm is the learner's memory trace for this word. Zero value if
	// Attempted is false.
	Mdm memory.MdmState
}

func scoreDesc(words []ScoredWord) {
	sort.SliceStable(words, func(i, j int) bool { return words[i].Score > words[j].Score })
}

// retainTopK keeps the k highest-scoring words, sorted descending. A
// plain full sort is used rather than the original's partial
// select-nth-then-sort optimization; Go's sort.SliceStable is already O(n log n)
// and candidate pools here are small enough that the asymptotic win isn't
// worth the extra code.
func retainTopK(words []ScoredWord, k int) []ScoredWord {
	if k <= 0 {
		return nil
	}
	scoreDesc(words)
	if k >= len(words) {
		return words
	}
	return words[:k]
}

func reviewUCBBonus(reviewPopulation int, totalAttempts uint32, cfg amas.WordSelectorConfig) float64 {
	if reviewPopulation <= 1 {
		return 0.0
	}
	numerator := math.Log(float64(reviewPopulation) + 1.0)
	denominator := float64(totalAttempts) + 1.0
	bonus := cfg.ReviewUCBWeight * math.Sqrt(numerator/denominator)
	return math.Min(bonus, cfg.ReviewUCBMaxBonus)
}

func scoreNewWord(meta WordMeta, wordElo, userElo float64, strategy amas.StrategyParams, cfg amas.WordSelectorConfig, eloCfg amas.EloConfig) float64 {
	diffGap := math.Abs(meta.Difficulty - strategy.Difficulty)
	sigma := cfg.NewWordGaussianSigma
	difficultyPenalty := math.Exp(-(diffGap * diffGap) / (2.0 * sigma * sigma))
	return zpdPriority(userElo, wordElo, eloCfg) * difficultyPenalty
}

// zpdPriority is a thin, selector-local copy of elo.ZPDPriority's formula
// to avoid importing the elo package just for this one call; duplicated
// deliberately rather than exported cross-package plumbing for one line.
func zpdPriority(userElo, wordElo float64, cfg amas.EloConfig) float64 {
	optimalGap := userElo + cfg.ZPDOptimalOffset - wordElo
	return math.Exp(-(optimalGap * optimalGap) / (2.0 * cfg.ZPDGaussianSigma * cfg.ZPDGaussianSigma))
}

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

func scoreReviewWord(mdm memory.MdmState, mm amas.MemoryModelConfig, ws amas.WordSelectorConfig, now time.Time) (score, recall float64) {
	recall = memory.RecallProbability(mdm, now, mm)
	score = 1.0 - recall
	score += mm.RecallRiskBonus * sigmoid((mm.RecallRiskThreshold-recall)*ws.SigmoidSteepness)
	return score, recall
}

// Select scores every candidate, keeps the top newCount new words and top
// reviewCount review words by score, then interleaves them proportionally
// so the returned batch roughly alternates new/review words in the ratio
// the strategy called for rather than grouping all new words first.
func Select(
	candidates map[string]CandidateData,
	order []string,
	strategy amas.StrategyParams,
	batchSize int,
	userEloRating float64,
	sessionCtx *SessionContext,
	wsCfg amas.WordSelectorConfig,
	eloCfg amas.EloConfig,
	mmCfg amas.MemoryModelConfig,
	now time.Time,
) []ScoredWord {
	var newWords, reviewWords []ScoredWord

	reviewPopulation := 0
	for _, id := range order {
		if c, ok := candidates[id]; ok && c.Attempted {
			reviewPopulation++
		}
	}

	for _, id := range order {
		c, ok := candidates[id]
		if !ok {
			continue
		}

		if !c.Attempted {
			score := scoreNewWord(c.Meta, c.WordElo, userEloRating, strategy, wsCfg, eloCfg)
			newWords = append(newWords, ScoredWord{WordID: id, Score: score, IsNew: true})
			continue
		}

		base, recall := scoreReviewWord(c.Mdm, mmCfg, wsCfg, now)
		score := base + reviewUCBBonus(reviewPopulation, c.TotalAttempts, wsCfg)

		if sessionCtx != nil {
			if sessionCtx.ErrorProneWordIDs[id] {
				score += wsCfg.ErrorProneBonus
			}
			if sessionCtx.RecentlyMasteredWordIDs[id] && recall < wsCfg.RecallMasteredThreshold {
				score += wsCfg.RecentlyMasteredBonus
			}
		}

		reviewWords = append(reviewWords, ScoredWord{WordID: id, Score: score, IsNew: false})
	}

	effectiveNewRatio := strategy.NewRatio
	if sessionCtx != nil && sessionCtx.TemporalBoost > 0 {
		effectiveNewRatio = clampUnit(strategy.NewRatio * sessionCtx.TemporalBoost)
	}

	newCount := int(math.Round(float64(batchSize) * effectiveNewRatio))
	if newCount > batchSize {
		newCount = batchSize
	}
	reviewCount := batchSize - newCount

	newWords = retainTopK(newWords, newCount)
	reviewWords = retainTopK(reviewWords, reviewCount)

	return interleave(newWords, reviewWords, batchSize)
}

// interleave alternates the two already-ranked slices in proportion to
// their relative sizes, so a 70/30 new/review split doesn't front-load
// all new words before any review word appears.
func interleave(newWords, reviewWords []ScoredWord, batchSize int) []ScoredWord {
	actualNew := len(newWords)
	actualReview := len(reviewWords)
	total := actualNew + actualReview
	if total == 0 {
		return nil
	}

	result := make([]ScoredWord, 0, batchSize)
	ni, ri := 0, 0
	for i := 0; i < total; i++ {
		newTarget := ((i + 1) * actualNew) / total
		switch {
		case ni < actualNew && ni < newTarget:
			result = append(result, newWords[ni])
			ni++
		case ri < actualReview:
			result = append(result, reviewWords[ri])
			ri++
		case ni < actualNew:
			result = append(result, newWords[ni])
			ni++
		}
	}

	if len(result) > batchSize {
		result = result[:batchSize]
	}
	return result
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
