// Package ml provides the default inference collaborator: a deterministic
// lexicon-based sentiment scorer. It stands in for an external model server
// behind the same Predictor interface; the auth core treats either as an
// opaque text → (label, score) call.
package ml

import (
	"context"
	"math"
	"strings"

	"github.com/sentiserve/ml-api/internal/core/domain"
)

const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
)

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "love": {}, "loved": {},
	"awesome": {}, "amazing": {}, "wonderful": {}, "best": {}, "fantastic": {},
	"happy": {}, "nice": {}, "perfect": {}, "enjoy": {}, "enjoyed": {},
	"like": {}, "brilliant": {}, "superb": {}, "delightful": {}, "pleasant": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "hate": {}, "hated": {},
	"worst": {}, "horrible": {}, "poor": {}, "disappointing": {}, "disappointed": {},
	"sad": {}, "angry": {}, "broken": {}, "useless": {}, "boring": {},
	"dislike": {}, "dreadful": {}, "mediocre": {}, "unpleasant": {}, "annoying": {},
}

// LexiconPredictor scores text by counting sentiment-bearing words. The
// score approaches 1 as the signal strengthens and floors at 0.5 for
// ambiguous input, mirroring the confidence shape of a binary classifier.
type LexiconPredictor struct {
	name string
}

func NewLexiconPredictor(name string) *LexiconPredictor {
	if name == "" {
		name = "lexicon-sst2-mini"
	}
	return &LexiconPredictor{name: name}
}

func (p *LexiconPredictor) Predict(_ context.Context, text string) (*domain.Prediction, error) {
	var pos, neg int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()")
		if _, ok := positiveWords[word]; ok {
			pos++
		}
		if _, ok := negativeWords[word]; ok {
			neg++
		}
	}

	label := LabelPositive
	signal := pos - neg
	if neg > pos {
		label = LabelNegative
		signal = neg - pos
	}

	// 0.5 when balanced, asymptotically 1 with stronger signal.
	score := 1 - 0.5*math.Exp(-0.7*float64(signal))

	return &domain.Prediction{
		Label: label,
		Score: math.Round(score*10000) / 10000,
		Text:  text,
	}, nil
}

func (p *LexiconPredictor) Info() domain.ModelInfo {
	return domain.ModelInfo{
		Name:   p.name,
		Task:   "sentiment-analysis",
		Labels: []string{LabelPositive, LabelNegative},
		Loaded: true,
	}
}
