// Package analyzer turns fashion text into gender-consistent product search terms.
package analyzer

import (
	"stylelens/internal/keywords"
	"stylelens/internal/model"
)

// Threshold presets
const (
	FreeTextThreshold    = 5
	SearchQueryThreshold = 8
)

// Detector classifies text as male, female or unisex from weighted signals
type Detector struct {
	tables    *keywords.Tables
	threshold int
}

// NewDetector creates a detector. A non-positive threshold falls back to FreeTextThreshold.
func NewDetector(tables *keywords.Tables, threshold int) *Detector {
	if threshold <= 0 {
		threshold = FreeTextThreshold
	}
	return &Detector{tables: tables, threshold: threshold}
}

// Threshold returns the minimum winning score
func (d *Detector) Threshold() int {
	return d.threshold
}

// Detect scores text and resolves a verdict. A polarity wins only when its
// score reaches the threshold and is strictly greater than both others.
func (d *Detector) Detect(text string) model.GenderVerdict {
	verdict := model.GenderVerdict{Polarity: model.PolarityUnisex, Threshold: d.threshold}
	if text == "" {
		return verdict
	}

	add := func(p model.Polarity, points int) {
		switch p {
		case model.PolarityMale:
			verdict.Scores.Male += points
		case model.PolarityFemale:
			verdict.Scores.Female += points
		case model.PolarityUnisex:
			verdict.Scores.Unisex += points
		}
	}

	for _, s := range d.tables.Signals {
		if n := s.Term.Count(text); n > 0 {
			add(s.Polarity, s.Weight*n)
			verdict.Matched = append(verdict.Matched, s.Term.Text)
		}
	}
	for _, p := range []model.Polarity{model.PolarityMale, model.PolarityFemale} {
		for _, item := range d.tables.Items(p).Terms() {
			if n := item.Count(text); n > 0 {
				add(p, d.tables.ItemWeight*n)
				verdict.Matched = append(verdict.Matched, item.Text)
			}
		}
	}

	verdict.Polarity = resolve(verdict.Scores, d.threshold)
	return verdict
}

func resolve(s model.GenderScores, threshold int) model.Polarity {
	switch {
	case s.Male >= threshold && s.Male > s.Female && s.Male > s.Unisex:
		return model.PolarityMale
	case s.Female >= threshold && s.Female > s.Male && s.Female > s.Unisex:
		return model.PolarityFemale
	default:
		return model.PolarityUnisex
	}
}
