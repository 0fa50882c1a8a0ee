// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import "math"

// Segment is one emitted introgression segment: the DoseRecs that
// make it up, in chain order, and the shared score assigned to all of
// them (spec.md §3).
type Segment struct {
	Index int
	Recs  []*DoseRec
	Score float64
}

// SegmentFinder runs spec.md §4.6's repeated longest-path DP over one
// chromosome's PairScorer. This is a direct generalization of the
// teacher's longestIncreasingSubsequence predecessor-array DP (lis.go)
// to a DAG whose edge weights come from the pair scorer instead of a
// strict-increase comparison, plus repeated extraction with
// incremental rescoring.
type SegmentFinder struct {
	ps    *PairScorer
	rate  *RateEstimator
	chrom int

	score   []float64
	prev    []int
	changed []bool
}

// NewSegmentFinder runs the initial DP fill of spec.md §4.6.
func NewSegmentFinder(ps *PairScorer, rate *RateEstimator, chrom int) (*SegmentFinder, error) {
	n := ps.Len()
	sf := &SegmentFinder{
		ps:      ps,
		rate:    rate,
		chrom:   chrom,
		score:   make([]float64, n),
		prev:    make([]int, n),
		changed: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		sf.prev[i] = -1
		if err := sf.fill(i); err != nil {
			return nil, err
		}
	}
	return sf, nil
}

// fill recomputes score[i]/prev[i] from scratch by scanning i's
// neighbor window, per spec.md §4.6's initial-fill pseudocode. Used
// both for the initial DP pass and for incremental rescoring of a
// single index.
func (sf *SegmentFinder) fill(i int) error {
	sf.score[i] = 0
	sf.prev[i] = -1
	lo, hi := sf.ps.Start(i), sf.ps.InclEnd(i)
	if lo < 0 {
		return nil
	}
	for k := lo; k <= hi; k++ {
		if sf.score[k] < 0 {
			continue
		}
		mpc, err := sf.rate.MutPerCmPerGen(sf.chrom, sf.ps.Rec(k).Pos(), sf.ps.Rec(i).Pos())
		if err != nil {
			return err
		}
		s := sf.score[k] + sf.ps.Score(k, i, mpc)
		if s > sf.score[i] {
			sf.score[i] = s
			sf.prev[i] = k
		}
	}
	return nil
}

// Score and Prev expose the current DP state for testing (spec.md §8
// "round-trips / idempotence").
func (sf *SegmentFinder) Score(i int) float64 { return sf.score[i] }
func (sf *SegmentFinder) Prev(i int) int      { return sf.prev[i] }

// argmax finds the index of the maximum score, breaking ties toward
// the highest index ("≥, not >"), per spec.md §4.6/Design Notes.
func (sf *SegmentFinder) argmax() int {
	top := 0
	for i := 1; i < len(sf.score); i++ {
		if sf.score[i] >= sf.score[top] {
			top = i
		}
	}
	return top
}

// Extract runs spec.md §4.6's extraction loop to completion: repeatedly
// take the best remaining chain, exclude it, incrementally rescore the
// affected suffix, and stop once the best remaining chain scores below
// minscore. Returns the segments in extraction order (their Index
// fields are assigned by the caller across chromosomes, see driver.go).
func (sf *SegmentFinder) Extract(minscore float64) ([]*Segment, error) {
	var segments []*Segment
	n := len(sf.score)
	if n == 0 {
		return nil, nil
	}
	for {
		top := sf.argmax()
		if sf.score[top] < minscore {
			return segments, nil
		}
		segScore := sf.score[top]
		var chain []int
		for k := top; k != -1; k = sf.prev[k] {
			chain = append(chain, k)
		}
		reverse(chain)

		recs := make([]*DoseRec, len(chain))
		for idx, k := range chain {
			recs[idx] = sf.ps.Rec(k)
		}
		segments = append(segments, &Segment{Recs: recs, Score: segScore})

		minIdx, maxIdx := chain[0], chain[0]
		touched := append([]int(nil), chain...)
		for _, k := range chain {
			sf.score[k] = math.Inf(-1)
			sf.prev[k] = -1
			sf.changed[k] = true
			if k < minIdx {
				minIdx = k
			}
			if k > maxIdx {
				maxIdx = k
			}
		}

		more, err := sf.rescore(minIdx, maxIdx)
		if err != nil {
			return nil, err
		}
		touched = append(touched, more...)
		for _, k := range touched {
			sf.changed[k] = false
		}
	}
}

// rescore implements spec.md §4.6's incremental rescore step: sweep
// forward from minIdx+1, recomputing score[i]/prev[i] wherever prev[i]
// pointed at a just-changed index and score[i] was still non-negative.
// Stops once pos(i) moves more than MaxDist past the most recent
// changed (or originally extracted) position — the anchor the Design
// Notes recommend tracking explicitly, seeded here from maxIdx so the
// sweep never starts already past its own window.
func (sf *SegmentFinder) rescore(minIdx, maxIdx int) ([]int, error) {
	lastChangedPos := sf.ps.Rec(maxIdx).Pos()
	var touched []int
	for i := minIdx + 1; i < len(sf.score); i++ {
		if sf.ps.Rec(i).Pos()-lastChangedPos > MaxDist {
			break
		}
		p := sf.prev[i]
		if p != -1 && sf.changed[p] && sf.score[i] >= 0 {
			if err := sf.fill(i); err != nil {
				return nil, err
			}
			sf.changed[i] = true
			touched = append(touched, i)
			if sf.ps.Rec(i).Pos() > lastChangedPos {
				lastChangedPos = sf.ps.Rec(i).Pos()
			}
		}
	}
	return touched, nil
}

func reverse(a []int) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}
