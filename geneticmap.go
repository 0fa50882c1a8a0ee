// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// GeneticMap answers spec.md §4.2's genPos(chrom, bp) -> centimorgans
// via piecewise-linear interpolation over a PLINK-style four-column
// map (chromosome, marker id, cM, bp), one interpolator per
// chromosome.
type GeneticMap struct {
	byChrom map[int]*chromMap
}

type chromMap struct {
	bp  []float64
	cm  []float64
	fit interp.FittedInterpolator
}

type point struct {
	bp, cm float64
}

// ReadGeneticMap parses a PLINK-style genetic map: four
// whitespace/tab-delimited columns (chromosome, marker id, cM, bp),
// one header-free row per marker. chromOf resolves the map's
// chromosome text to the dense integer indices used elsewhere, the
// same space the variant table is resolved into.
func ReadGeneticMap(r io.Reader, source string, chromOf func(string) (int, bool)) (*GeneticMap, error) {
	byChrom := map[int][]point{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 4 {
			return nil, inputErrorf(source, line, "expected 4 columns, got %d", len(fields))
		}
		chrom, ok := chromOf(fields[0])
		if !ok {
			continue // map covers a chromosome not present in the variant table
		}
		cm, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, inputErrorf(source, line, "invalid cM value %q: %v", fields[2], err)
		}
		bp, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, inputErrorf(source, line, "invalid bp value %q: %v", fields[3], err)
		}
		byChrom[chrom] = append(byChrom[chrom], point{bp: bp, cm: cm})
	}
	if err := scanner.Err(); err != nil {
		return nil, inputErrorf(source, line, "read error: %v", err)
	}

	gm := &GeneticMap{byChrom: map[int]*chromMap{}}
	for chrom, pts := range byChrom {
		// interp.PiecewiseLinear requires strictly increasing x.
		insertionSortPoints(pts)
		pts = dedupPoints(pts)
		if len(pts) < 2 {
			continue
		}
		cmap := &chromMap{}
		for _, p := range pts {
			cmap.bp = append(cmap.bp, p.bp)
			cmap.cm = append(cmap.cm, p.cm)
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(cmap.bp, cmap.cm); err != nil {
			return nil, inputErrorf(source, 0, "chromosome %d: %v", chrom, err)
		}
		cmap.fit = &pl
		gm.byChrom[chrom] = cmap
	}
	return gm, nil
}

func insertionSortPoints(pts []point) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && pts[j-1].bp > pts[j].bp; j-- {
			pts[j-1], pts[j] = pts[j], pts[j-1]
		}
	}
}

func dedupPoints(pts []point) []point {
	out := pts[:0:0]
	for i, p := range pts {
		if i > 0 && p.bp == pts[i-1].bp {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GenPos returns the interpolated centimorgan position of (chrom,
// bp), clamping to the map's first/last marker outside its range
// (gonum's PiecewiseLinear already clamps internally via the nearest
// segment). Returns false if no map data exists for chrom.
func (gm *GeneticMap) GenPos(chrom, bp int) (float64, bool) {
	cmap, ok := gm.byChrom[chrom]
	if !ok {
		return 0, false
	}
	x := float64(bp)
	if x < cmap.bp[0] {
		x = cmap.bp[0]
	} else if last := cmap.bp[len(cmap.bp)-1]; x > last {
		x = last
	}
	return cmap.fit.Predict(x), true
}

// HasChrom reports whether the map has data for chrom.
func (gm *GeneticMap) HasChrom(chrom int) bool {
	_, ok := gm.byChrom[chrom]
	return ok
}

// OpenGeneticMap opens fnm (transparently gzip-decoding if it ends in
// ".gz") and parses it as a PLINK-style genetic map, resolving
// chromosome labels against chroms without assigning new ones (a map
// entry for a chromosome absent from the variant table is simply
// ignored, per spec.md §6).
func OpenGeneticMap(fnm string, chroms *ChromResolver) (*GeneticMap, error) {
	rc, err := openMaybeGzip(fnm)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadGeneticMap(rc, fnm, chroms.Lookup)
}
