// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	log "github.com/sirupsen/logrus"
)

// RunStats summarizes one run for the log file (spec.md §6).
type RunStats struct {
	NumOutgroup  int
	NumTarget    int
	NumVariants  int
	NumSegments  int
	NumChroms    int
}

// Run streams cfg's variant table twice (spec.md §5's single-process
// design: the global density denominator must be known before any
// chromosome's segment finder runs, so positions are collected in a
// first pass and the heavy per-chromosome DoseRec buffer is built and
// dropped in a second, per §4.7's "chromosome window driver"). It
// returns the aggregated output and run statistics, or a fatal error
// per spec.md §7.
func Run(cfg *Config) (*Aggregator, *RunStats, *ChromResolver, error) {
	chroms := NewChromResolver()

	excludeSamples, err := loadOptionalIDList(cfg.ExcludeSamples)
	if err != nil {
		return nil, nil, nil, err
	}
	excludeMarkers, err := loadOptionalIDList(cfg.ExcludeMarkers)
	if err != nil {
		return nil, nil, nil, err
	}
	excludeMarkerSet := make(map[string]bool, len(excludeMarkers))
	for _, id := range excludeMarkers {
		excludeMarkerSet[id] = true
	}
	outgroupIDs, err := readIDList(cfg.OutgroupFile)
	if err != nil {
		return nil, nil, nil, err
	}

	chromFilter, err := ParseChromFilter(cfg.Chrom)
	if err != nil {
		return nil, nil, nil, err
	}

	positions := NewPositionTable()
	var cohort *Cohort
	nSelected := 0

	// Pass 1: positions only, for the global/local density estimator.
	{
		src, err := OpenTableReader(cfg.VariantTable, chroms)
		if err != nil {
			return nil, nil, nil, err
		}
		cohort = BuildCohort(src.Samples(), outgroupIDs, excludeSamples)
		for src.Next() {
			rec := src.Record()
			if excludeMarkerSet[rec.Marker.ID] {
				continue
			}
			if !chromFilter.Matches(chroms.Name(rec.Marker.Chrom), rec.Marker.Pos) {
				continue
			}
			nSelected++
			for a := 1; a < len(rec.Marker.Alleles); a++ {
				positions.Add(rec.Marker.Chrom, rec.Marker.Pos)
			}
		}
		if err := src.Err(); err != nil {
			src.Close()
			return nil, nil, nil, err
		}
		src.Close()
	}
	if nSelected == 0 {
		return nil, nil, nil, &EmptySelectionError{Selector: cfg.Chrom}
	}

	gm, err := OpenGeneticMap(cfg.GeneticMap, chroms)
	if err != nil {
		return nil, nil, nil, err
	}
	rate := NewRateEstimator(positions, gm, cfg.Mu)

	agg := NewAggregator()
	stats := &RunStats{NumOutgroup: cohort.nOutgroup(), NumTarget: cohort.NumSamples - cohort.nOutgroup() - numExcluded(cohort)}
	nextSegIndex := 0
	nChromsSeen := 0

	// Pass 2: build and process one chromosome's DoseRec buffer at a
	// time, dropping it before moving to the next (spec.md §4.7).
	{
		src, err := OpenTableReader(cfg.VariantTable, chroms)
		if err != nil {
			return nil, nil, nil, err
		}
		defer src.Close()

		var buf []*DoseRec
		curChrom := -1
		flush := func() error {
			if len(buf) == 0 {
				return nil
			}
			nChromsSeen++
			ps := NewPairScorer(buf)
			sf, err := NewSegmentFinder(ps, rate, curChrom)
			if err != nil {
				return err
			}
			segs, err := sf.Extract(cfg.MinScore)
			if err != nil {
				return err
			}
			for _, seg := range segs {
				seg.Index = nextSegIndex
				agg.AddSegment(seg, nextSegIndex)
				nextSegIndex++
			}
			buf = nil
			return nil
		}

		for src.Next() {
			rec := src.Record()
			if excludeMarkerSet[rec.Marker.ID] {
				continue
			}
			if !chromFilter.Matches(chroms.Name(rec.Marker.Chrom), rec.Marker.Pos) {
				continue
			}
			if recordHasMissingCall(rec, cohort) {
				return nil, nil, nil, inputErrorf(cfg.VariantTable, 0, "missing genotype call at %s:%d", chroms.Name(rec.Marker.Chrom), rec.Marker.Pos)
			}
			if rec.Marker.Chrom != curChrom {
				if err := flush(); err != nil {
					return nil, nil, nil, err
				}
				curChrom = rec.Marker.Chrom
			}
			doseRecs, err := BuildDoseRecs(rec, cohort, cfg.MaxFreq, cfg.VariantTable, 0)
			if err != nil {
				return nil, nil, nil, err
			}
			buf = append(buf, doseRecs...)
			stats.NumVariants++
		}
		if err := src.Err(); err != nil {
			return nil, nil, nil, err
		}
		if err := flush(); err != nil {
			return nil, nil, nil, err
		}
	}

	if chroms.Count() == 1 {
		log.Warn("input file names only one chromosome; the global density denominator is degenerate")
	}

	stats.NumChroms = nChromsSeen
	stats.NumSegments = agg.NumSegments()
	return agg, stats, chroms, nil
}

func loadOptionalIDList(fnm string) ([]string, error) {
	if fnm == "" {
		return nil, nil
	}
	return readIDList(fnm)
}

func numExcluded(c *Cohort) int {
	n := 0
	for _, ex := range c.IsExcluded {
		if ex {
			n++
		}
	}
	return n
}

func recordHasMissingCall(rec *Record, cohort *Cohort) bool {
	for s := 0; s < len(rec.Calls1); s++ {
		if cohort.IsExcluded[s] {
			continue
		}
		if rec.Calls1[s] == missingAllele || rec.Calls2[s] == missingAllele {
			return true
		}
	}
	return false
}
