// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// outputRow is one emitted (DoseRec, segment index, score) tuple,
// spec.md §4.8.
type outputRow struct {
	marker Marker
	allele int
	seg    int
	score  float64
}

// Aggregator collects output rows across every chromosome processed
// by the driver and emits them stably sorted, spec.md §3
// "Lifecycle"/§4.8. Modeled on export.go's writer-acquire/defer-close
// shape, minus anything FASTA/HGVS-specific (dropped per DESIGN.md).
type Aggregator struct {
	rows []outputRow
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator { return &Aggregator{} }

// AddSegment records every DoseRec in seg under segIndex.
func (a *Aggregator) AddSegment(seg *Segment, segIndex int) {
	for _, r := range seg.Recs {
		a.rows = append(a.rows, outputRow{
			marker: r.Marker,
			allele: r.Allele,
			seg:    segIndex,
			score:  seg.Score,
		})
	}
}

// NumRows returns the number of recorded rows.
func (a *Aggregator) NumRows() int { return len(a.rows) }

// NumSegments returns the number of distinct segment indices recorded.
func (a *Aggregator) NumSegments() int {
	seen := map[int]bool{}
	for _, r := range a.rows {
		seen[r.seg] = true
	}
	return len(seen)
}

// sortRows stably sorts by (chrom, pos, alleles) then segment index
// then score, per spec.md §4.8 (the Design Notes' "treat the intent
// as marker-then-segment-then-score" resolution of the dead-code
// comparator in the source).
func (a *Aggregator) sortRows() {
	sort.SliceStable(a.rows, func(i, j int) bool {
		ri, rj := a.rows[i], a.rows[j]
		if ri.marker.Chrom != rj.marker.Chrom {
			return ri.marker.Chrom < rj.marker.Chrom
		}
		if ri.marker.Pos != rj.marker.Pos {
			return ri.marker.Pos < rj.marker.Pos
		}
		if c := compareAlleles(ri.marker.Alleles, rj.marker.Alleles); c != 0 {
			return c < 0
		}
		if ri.seg != rj.seg {
			return ri.seg < rj.seg
		}
		return ri.score < rj.score
	})
}

// WriteScoreFile writes the .score file format of spec.md §6: a
// header line, then one tab-delimited row per output tuple, using the
// resolver to recover original chromosome labels.
func (a *Aggregator) WriteScoreFile(path string, chroms *ChromResolver) error {
	a.sortRows()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := io.WriteString(w, "CHROM\tPOS\tID\tREF\tALT\tSEGMENT\tALLELE\tSCORE\n"); err != nil {
		return err
	}
	for _, r := range a.rows {
		_, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\t%d\t%d\n",
			chroms.Name(r.marker.Chrom), r.marker.Pos, r.marker.ID, r.marker.Ref(), r.marker.Alt(),
			r.seg, r.allele, roundScore(r.score))
		if err != nil {
			return err
		}
	}
	return w.Flush()
}

// roundScore rounds to the nearest integer, matching spec.md §6's
// "the source rounds by casting Math.round to integer" (half away
// from zero for the typical positive scores this tool produces).
func roundScore(s float64) int64 {
	return int64(math.Floor(s + 0.5))
}
