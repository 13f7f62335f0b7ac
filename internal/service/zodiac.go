package service

import (
	"context"
	"fmt"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ZodiacTable looks up the compatibility of two zodiac signs.
// Implementations receive lower-cased labels and must be symmetric.
type ZodiacTable interface {
	Compatibility(ctx context.Context, sign1, sign2 string) (float64, error)
}

// Element scores used to build the built-in table
const (
	zodiacSameSign        = 0.75
	zodiacSameElement     = 0.9
	zodiacComplementary   = 0.8
	zodiacChallenging     = 0.4
	zodiacNeutralElements = 0.55
)

var zodiacElements = map[string]string{
	"aries": "fire", "leo": "fire", "sagittarius": "fire",
	"taurus": "earth", "virgo": "earth", "capricorn": "earth",
	"gemini": "air", "libra": "air", "aquarius": "air",
	"cancer": "water", "scorpio": "water", "pisces": "water",
}

// StaticZodiacTable is the built-in element-based table. It backs scoring
// when no database table is configured and is the source for seeding one.
type StaticZodiacTable struct {
	scores map[[2]string]float64
}

// NewStaticZodiacTable builds the full 78-pair symmetric table
func NewStaticZodiacTable() *StaticZodiacTable {
	scores := make(map[[2]string]float64, 78)
	for i, a := range model.ZodiacSigns {
		for _, b := range model.ZodiacSigns[i:] {
			scores[pairKey(a, b)] = elementScore(a, b)
		}
	}
	return &StaticZodiacTable{scores: scores}
}

// Compatibility returns the table score for two signs
func (t *StaticZodiacTable) Compatibility(_ context.Context, sign1, sign2 string) (float64, error) {
	a, b := model.NormalizeZodiacSign(sign1), model.NormalizeZodiacSign(sign2)
	score, ok := t.scores[pairKey(a, b)]
	if !ok {
		return 0, fmt.Errorf("unknown zodiac pair %q/%q", a, b)
	}
	return score, nil
}

// Pairs returns a copy of every pair in the table, keyed by ordered sign pair
func (t *StaticZodiacTable) Pairs() map[[2]string]float64 {
	out := make(map[[2]string]float64, len(t.scores))
	for k, v := range t.scores {
		out[k] = v
	}
	return out
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func elementScore(a, b string) float64 {
	if a == b {
		return zodiacSameSign
	}
	ea, eb := zodiacElements[a], zodiacElements[b]
	switch {
	case ea == eb:
		return zodiacSameElement
	case complementaryElements(ea, eb):
		return zodiacComplementary
	case challengingElements(ea, eb):
		return zodiacChallenging
	default:
		return zodiacNeutralElements
	}
}

func complementaryElements(a, b string) bool {
	return (a == "fire" && b == "air") || (a == "air" && b == "fire") ||
		(a == "earth" && b == "water") || (a == "water" && b == "earth")
}

func challengingElements(a, b string) bool {
	return (a == "fire" && b == "water") || (a == "water" && b == "fire") ||
		(a == "earth" && b == "air") || (a == "air" && b == "earth")
}
