// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import "math"

// missingAllele is the sentinel stored by a Record for a no-call.
const missingAllele = -1

// Record is one row of the input variant table (spec.md §6). Genotype
// calls are a pair of allele indices per sample, or missingAllele for
// a no-call. The indices are not range-checked when a Record is read;
// BuildDoseRecs rejects out-of-range ones.
type Record struct {
	Marker  Marker
	Calls1  []int // allele 1 per sample, indexed by global sample index
	Calls2  []int // allele 2 per sample, indexed by global sample index
}

// DoseRec is the per-(variant, candidate-allele) record of spec.md
// §3: which target samples carry the allele as a het or a hom, plus
// its precomputed outgroup frequency.
type DoseRec struct {
	Marker  Marker
	Allele  int // index into Marker.Alleles
	hets    *indexSet
	homs    *indexSet
	TargCnt int
	OutCnt  int
	OutFreq float64

	pos int // cache of Marker.Pos, hot in pairscore/segment
}

// HasHet, HasHom, NumHets, NumHoms, EachHet and EachHom expose the
// carrier sets read-only, for haplotypeDistance and for testing,
// without reaching into the sets directly.
func (d *DoseRec) HasHet(sample int) bool { return d.hets.Has(sample) }
func (d *DoseRec) HasHom(sample int) bool { return d.homs.Has(sample) }
func (d *DoseRec) NumHets() int           { return d.hets.Len() }
func (d *DoseRec) NumHoms() int           { return d.homs.Len() }
func (d *DoseRec) EachHet(f func(s int))  { d.hets.Each(f) }
func (d *DoseRec) EachHom(f func(s int))  { d.homs.Each(f) }
func (d *DoseRec) Pos() int               { return d.pos }

// Cohort partitions the global sample index space into outgroup and
// target samples, per spec.md §6 (outgroup list, sample exclusion).
type Cohort struct {
	NumSamples int
	IsOutgroup []bool // len == NumSamples; true for listed outgroup samples, even if also excluded
	IsExcluded []bool // len == NumSamples; an excluded sample is neither outgroup nor target
}

func (c *Cohort) nOutgroup() int {
	n := 0
	for i, out := range c.IsOutgroup {
		if out && !c.IsExcluded[i] {
			n++
		}
	}
	return n
}

// BuildDoseRecs applies spec.md §4.3 to one input record: for every
// candidate allele whose outgroup copy count does not exceed
// floor(maxfreq*nOutgroup), emit a DoseRec. maxfreq must be in [0,1].
//
// Fails with an InputFormatError if a call's allele index is out of
// range for rec.Marker.Alleles, or if the calls slices disagree in
// length with cohort.NumSamples.
func BuildDoseRecs(rec *Record, cohort *Cohort, maxfreq float64, source string, line int) ([]*DoseRec, error) {
	n := cohort.NumSamples
	if len(rec.Calls1) != n || len(rec.Calls2) != n {
		return nil, inputErrorf(source, line, "genotype column count (%d/%d) does not match sample count %d", len(rec.Calls1), len(rec.Calls2), n)
	}
	nAlleles := len(rec.Marker.Alleles)
	nOutgroup := cohort.nOutgroup()
	maxCnt := int(math.Floor(maxfreq * float64(nOutgroup)))

	type tally struct {
		hets, homs *indexSet
		outCnt     int
		outNonMiss int
	}
	tallies := make(map[int]*tally, nAlleles-1)

	for s := 0; s < n; s++ {
		if cohort.IsExcluded[s] {
			continue
		}
		a1, a2 := rec.Calls1[s], rec.Calls2[s]
		if a1 != missingAllele && (a1 < 0 || a1 >= nAlleles) {
			return nil, inputErrorf(source, line, "allele index %d out of range [0,%d) for sample %d", a1, nAlleles, s)
		}
		if a2 != missingAllele && (a2 < 0 || a2 >= nAlleles) {
			return nil, inputErrorf(source, line, "allele index %d out of range [0,%d) for sample %d", a2, nAlleles, s)
		}
		if cohort.IsOutgroup[s] {
			miss := 0
			if a1 == missingAllele {
				miss++
			}
			if a2 == missingAllele {
				miss++
			}
			for a := 1; a < nAlleles; a++ {
				t := tallies[a]
				if t == nil {
					t = &tally{}
					tallies[a] = t
				}
				copies := 0
				if a1 == a {
					copies++
				}
				if a2 == a {
					copies++
				}
				t.outCnt += copies
				t.outNonMiss += 2 - miss
			}
			continue
		}
		// target sample
		for a := 1; a < nAlleles; a++ {
			copies := 0
			if a1 == a {
				copies++
			}
			if a2 == a {
				copies++
			}
			if copies == 0 {
				continue
			}
			t := tallies[a]
			if t == nil {
				t = &tally{}
				tallies[a] = t
			}
			if t.hets == nil {
				t.hets = newIndexSet(8)
				t.homs = newIndexSet(8)
			}
			if copies == 1 {
				t.hets.Add(s)
			} else {
				t.homs.Add(s)
			}
		}
	}

	var out []*DoseRec
	for a := 1; a < nAlleles; a++ {
		t := tallies[a]
		if t == nil || t.outCnt > maxCnt {
			continue
		}
		hets, homs := t.hets, t.homs
		if hets == nil {
			hets = newIndexSet(0)
		}
		if homs == nil {
			homs = newIndexSet(0)
		}
		var outFreq float64
		if t.outNonMiss > 0 {
			outFreq = float64(t.outCnt) / float64(t.outNonMiss)
		}
		out = append(out, &DoseRec{
			Marker:  rec.Marker,
			Allele:  a,
			hets:    hets,
			homs:    homs,
			TargCnt: hets.Len() + 2*homs.Len(),
			OutCnt:  t.outCnt,
			OutFreq: outFreq,
			pos:     rec.Marker.Pos,
		})
	}
	return out, nil
}
