// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import "sort"

// PositionTable holds, per chromosome, the sorted multiset of
// positions of every non-reference allele of every non-excluded
// variant on that chromosome (spec.md §3). It is built once from the
// full input and immutable thereafter; used only for the local
// density / rate estimator (spec.md §4.2).
type PositionTable struct {
	byChrom map[int][]int
	frozen  bool
}

// NewPositionTable returns an empty, unfrozen table.
func NewPositionTable() *PositionTable {
	return &PositionTable{byChrom: map[int][]int{}}
}

// Add records one non-reference allele occurrence at (chrom, pos).
// Must not be called after Freeze.
func (pt *PositionTable) Add(chrom, pos int) {
	if pt.frozen {
		panic("bug: PositionTable.Add called after Freeze")
	}
	pt.byChrom[chrom] = append(pt.byChrom[chrom], pos)
}

// Freeze sorts every chromosome's position slice. Idempotent.
func (pt *PositionTable) Freeze() {
	if pt.frozen {
		return
	}
	for _, positions := range pt.byChrom {
		sort.Ints(positions)
	}
	pt.frozen = true
}

// Chromosomes returns the set of chromosome indices with at least one
// stored position.
func (pt *PositionTable) Chromosomes() []int {
	out := make([]int, 0, len(pt.byChrom))
	for c, positions := range pt.byChrom {
		if len(positions) > 0 {
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

// bounds returns the first and last stored position for chrom, and
// whether any position is stored at all.
func (pt *PositionTable) bounds(chrom int) (first, last int, ok bool) {
	positions := pt.byChrom[chrom]
	if len(positions) == 0 {
		return 0, 0, false
	}
	return positions[0], positions[len(positions)-1], true
}

// nVariants returns the number of stored positions in the closed
// interval [p1, p2], per spec.md §4.2. The two binary searches find
// the first position >= p1 and the first > p2, so every repeat of a
// boundary value is counted.
func (pt *PositionTable) nVariants(chrom, p1, p2 int) int {
	positions := pt.byChrom[chrom]
	if len(positions) == 0 || p1 > p2 {
		return 0
	}
	lo := sort.SearchInts(positions, p1)
	hi := sort.Search(len(positions), func(i int) bool { return positions[i] > p2 })
	if lo >= hi {
		return 0
	}
	return hi - lo
}

const densityStep = 5000
const densityMaxIter = 20
const densityMinCount = 6
const densityTargetCount = 10
const cmTargetMin = 0.01

// localDensity implements spec.md §4.2's adaptive expansion: grow the
// [s,e] window by densityStep bp on each side, clipped to the
// chromosome's stored bounds, for up to densityMaxIter iterations.
// Records a density sample once an expansion contains at least
// densityMinCount variants; stops once an expansion reaches
// densityTargetCount. Returns the maximum density observed, or an
// EstimatorError if fewer than densityMinCount variants ever appear.
func (pt *PositionTable) localDensity(chrom, s, e int) (float64, error) {
	first, last, ok := pt.bounds(chrom)
	if !ok {
		return 0, estimatorErrorf(chrom, s, e, "no stored positions for chromosome")
	}
	maxDensity := -1.0
	found := false
	for n := 0; n < densityMaxIter; n++ {
		lo := s - n*densityStep
		hi := e + n*densityStep
		if lo < first {
			lo = first
		}
		if hi > last {
			hi = last
		}
		count := pt.nVariants(chrom, lo, hi)
		width := hi - lo
		if count >= densityMinCount {
			found = true
			d := float64(count) / float64(width+1)
			if d > maxDensity {
				maxDensity = d
			}
		}
		if count >= densityTargetCount {
			break
		}
	}
	if !found {
		return 0, estimatorErrorf(chrom, s, e, "fewer than %d variants in any expansion", densityMinCount)
	}
	return maxDensity, nil
}

// cmPerBp implements spec.md §4.2's cM/bp estimator over the same
// expansion schedule as localDensity, using gm to convert bp to cM.
// Runs at least densityMaxIter iterations, or until cm > 0, and stops
// once the window spans at least cmTargetMin cM and at least one
// positive estimate has been recorded. Returns the minimum cm/bp
// observed across positive estimates; EstimatorError if none appear.
func (pt *PositionTable) cmPerBp(gm *GeneticMap, chrom, s, e int) (float64, error) {
	first, last, ok := pt.bounds(chrom)
	if !ok {
		return 0, estimatorErrorf(chrom, s, e, "no stored positions for chromosome")
	}
	minRate := -1.0
	found := false
	for n := 0; n < densityMaxIter || !found; n++ {
		lo := s - n*densityStep
		hi := e + n*densityStep
		if lo < first {
			lo = first
		}
		if hi > last {
			hi = last
		}
		genLo, okLo := gm.GenPos(chrom, lo)
		genHi, okHi := gm.GenPos(chrom, hi)
		if okLo && okHi {
			cm := genHi - genLo
			width := hi - lo
			if cm > 0 {
				found = true
				rate := cm / float64(width+1)
				if minRate < 0 || rate < minRate {
					minRate = rate
				}
				if cm >= cmTargetMin {
					break
				}
			}
		}
		if n >= 4*densityMaxIter {
			// safety valve: the loop condition keeps going while no
			// positive estimate has been found, and once lo==first and
			// hi==last nothing changes, so a window whose cM span
			// stays zero would otherwise loop forever.
			break
		}
	}
	if !found {
		return 0, estimatorErrorf(chrom, s, e, "no positive cM/bp estimate found")
	}
	return minRate, nil
}

// globalDensityStats computes spec.md §4.2's globalDensity: total
// stored positions divided by total (last-first+1) span, summed over
// every chromosome with at least one stored position.
func (pt *PositionTable) globalDensityStats() float64 {
	var totalN, totalWidth int
	for _, positions := range pt.byChrom {
		if len(positions) == 0 {
			continue
		}
		totalN += len(positions)
		totalWidth += positions[len(positions)-1] - positions[0] + 1
	}
	if totalWidth == 0 {
		return 0
	}
	return float64(totalN) / float64(totalWidth)
}

// RateEstimator bundles the position table, genetic map, and global
// density denominator needed to compute mutPerCmPerGen (spec.md
// §4.2). One instance is built per run, after every chromosome has
// been streamed once to populate PositionTable (spec.md §5).
type RateEstimator struct {
	Positions     *PositionTable
	Map           *GeneticMap
	Mu            float64
	globalDensity float64
}

// NewRateEstimator freezes positions (idempotent) and caches the
// global density denominator.
func NewRateEstimator(positions *PositionTable, gm *GeneticMap, mu float64) *RateEstimator {
	positions.Freeze()
	return &RateEstimator{
		Positions:     positions,
		Map:           gm,
		Mu:            mu,
		globalDensity: positions.globalDensityStats(),
	}
}

// MutPerCmPerGen implements spec.md §4.2:
// (localDensity/globalDensity) * mu / cmPerBp.
func (re *RateEstimator) MutPerCmPerGen(chrom, s, e int) (float64, error) {
	if re.globalDensity <= 0 {
		return 0, estimatorErrorf(chrom, s, e, "global density is zero (no chromosome has stored positions)")
	}
	local, err := re.Positions.localDensity(chrom, s, e)
	if err != nil {
		return 0, err
	}
	rate, err := re.Positions.cmPerBp(re.Map, chrom, s, e)
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, estimatorErrorf(chrom, s, e, "cmPerBp resolved to zero")
	}
	return (local / re.globalDensity) * re.Mu / rate, nil
}
