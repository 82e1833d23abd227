// Package srs implements the SuperMemo-2 spaced-repetition scheduler and the
// review service built on top of it.
package srs

import (
	"math"

	"github.com/example/nclexprep/pkg/models"
)

// Quality grades recall on the standard SM-2 scale.
type Quality float64

const (
	// Complete blackout, unable to recall
	QualityBlackout Quality = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect Quality = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar Quality = 2
	// Correct response but required significant effort
	QualityCorrectDifficult Quality = 3
	// Correct response after some hesitation
	QualityCorrectHesitation Quality = 4
	// Perfect response with no hesitation
	QualityPerfect Quality = 5
)

// Scheduler computes SM-2 review intervals.
type Scheduler struct {
	// Quality at or above this counts as successful recall.
	PassThreshold Quality
	// Interval granted by the first successful review, in days.
	BootstrapInterval int
	// Maximum interval in days. Zero disables the cap.
	MaxInterval int
}

// NewScheduler returns a scheduler with the default SM-2 parameters.
func NewScheduler() *Scheduler {
	return &Scheduler{
		PassThreshold:     QualityCorrectDifficult,
		BootstrapInterval: 6,
		MaxInterval:       365,
	}
}

// Result is the updated scheduling state for one review.
type Result struct {
	Interval    int     // days until the next review, >= 1
	EaseFactor  float64 // >= models.MinEaseFactor
	Repetitions int     // consecutive successful reviews, 0 after a lapse
}

// ComputeNextReview applies one review to the prior scheduling state. Pure:
// no clock reads, no stores. Inputs are assumed already validated (quality in
// [0,5], ease factor >= 1.3, interval >= 1); validation happens at the
// service boundary.
//
// Failed recall (quality below the pass threshold) resets the interval to a
// single day and the repetition streak to zero, however long the prior
// interval was. The first success after that earns the bootstrap interval;
// later successes grow the interval by the ease factor.
func (s *Scheduler) ComputeNextReview(priorEase float64, priorInterval, priorRepetitions int, quality Quality) Result {
	q := float64(quality)
	ease := priorEase + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < models.MinEaseFactor {
		ease = models.MinEaseFactor
	}

	if quality < s.PassThreshold {
		return Result{Interval: 1, EaseFactor: ease, Repetitions: 0}
	}

	reps := priorRepetitions + 1
	var interval int
	if priorInterval <= 1 && reps == 1 {
		interval = s.BootstrapInterval
	} else {
		interval = int(math.Round(float64(priorInterval) * ease))
		if interval < 1 {
			interval = 1
		}
	}
	if s.MaxInterval > 0 && interval > s.MaxInterval {
		interval = s.MaxInterval
	}
	return Result{Interval: interval, EaseFactor: ease, Repetitions: reps}
}
