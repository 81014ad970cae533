package cart

import (
	"math"
	"sort"
)

// quantityCeiling keeps float to int conversion defined for huge inputs.
const quantityCeiling = float64(math.MaxInt32)

// ClampQuantity floors raw and clamps it into [min, max]. NaN and
// infinities count as 1 before clamping.
func ClampQuantity(raw, min, max float64) int {
	v := math.Floor(raw)
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		v = 1
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	if v > quantityCeiling {
		v = quantityCeiling
	}
	return int(v)
}

// ClampAtLeastOne is ClampQuantity with min 1 and no upper bound.
func ClampAtLeastOne(raw float64) int {
	return ClampQuantity(raw, 1, math.Inf(1))
}

// PaperSurcharges maps a paper type to the fee added to a kit.
type PaperSurcharges map[string]float64

var DefaultPaperSurcharges = PaperSurcharges{
	"Mate 90g":      10,
	"Satinado 115g": 20,
	"Fotográfico":   30,
	"Reciclado":     15,
	"Bond":          5,
}

// Surcharge returns the fee for paperType; unknown or nil is 0.
func (t PaperSurcharges) Surcharge(paperType *string) float64 {
	if paperType == nil {
		return 0
	}
	return t[*paperType]
}

func (t PaperSurcharges) Has(paperType string) bool {
	_, ok := t[paperType]
	return ok
}

// Merge returns a copy of t with overrides applied on top.
func (t PaperSurcharges) Merge(overrides map[string]float64) PaperSurcharges {
	out := make(PaperSurcharges, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func (t PaperSurcharges) Names() []string {
	names := make([]string, 0, len(t))
	for k := range t {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// RatingSummary keeps the count next to the mean so that "no ratings"
// (0 of 0) differs from a real average.
type RatingSummary struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"ratingCount"`
}

func AverageRating(values []int) RatingSummary {
	if len(values) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return RatingSummary{
		Average: float64(sum) / float64(len(values)),
		Count:   len(values),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
