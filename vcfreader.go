// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// TableReader is the default VariantSource: a lazy, line-oriented,
// tab-delimited variant table reader (spec.md §6). Column layout:
//
//	CHROM  POS  ID  REF  ALT  FORMAT  sample1  sample2  ...
//
// ALT is a comma-separated allele list; FORMAT's first colon-delimited
// subfield position named "GT" holds the genotype call
// ("0/1", "1|1", "./.", etc.). This is the one piece of the core
// spec.md treats as an external collaborator interface (§1, §9); the
// parser below is a concrete, runnable default modeled on the
// teacher's tab-split genotype loop (import.go).
type TableReader struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
	samples []string
	chroms  *ChromResolver
	line    int
	source  string

	rec *Record
	err error
}

// OpenTableReader opens fnm (transparently gzip-decoding if it ends
// in ".gz") and reads its header line.
func OpenTableReader(fnm string, chroms *ChromResolver) (*TableReader, error) {
	rc, err := openMaybeGzip(fnm)
	if err != nil {
		return nil, err
	}
	tr := &TableReader{
		rc:      rc,
		scanner: bufio.NewScanner(rc),
		chroms:  chroms,
		source:  fnm,
	}
	tr.scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	if !tr.scanner.Scan() {
		rc.Close()
		if err := tr.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, inputErrorf(fnm, 0, "empty file, expected a header line")
	}
	tr.line = 1
	header := strings.Split(tr.scanner.Text(), "\t")
	if len(header) < 7 {
		rc.Close()
		return nil, inputErrorf(fnm, 1, "header has %d columns, expected at least 7 (CHROM POS ID REF ALT FORMAT sample...)", len(header))
	}
	if header[0] != "CHROM" && header[0] != "#CHROM" {
		rc.Close()
		return nil, inputErrorf(fnm, 1, "expected CHROM in first column, got %q", header[0])
	}
	tr.samples = append([]string(nil), header[6:]...)
	return tr, nil
}

// Samples implements VariantSource.
func (tr *TableReader) Samples() []string { return tr.samples }

// Next implements VariantSource.
func (tr *TableReader) Next() bool {
	if tr.err != nil {
		return false
	}
	if !tr.scanner.Scan() {
		tr.err = tr.scanner.Err()
		return false
	}
	tr.line++
	fields := strings.Split(tr.scanner.Text(), "\t")
	if len(fields) != 6+len(tr.samples) {
		tr.err = inputErrorf(tr.source, tr.line, "row has %d columns, expected %d", len(fields), 6+len(tr.samples))
		return false
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		tr.err = inputErrorf(tr.source, tr.line, "invalid POS %q: %v", fields[1], err)
		return false
	}
	alleles := append([]string{fields[3]}, strings.Split(fields[4], ",")...)
	gtIdx := gtSubfieldIndex(fields[5])

	rec := &Record{
		Marker: Marker{
			Chrom:   tr.chroms.Resolve(fields[0]),
			Pos:     pos,
			ID:      fields[2],
			Alleles: alleles,
		},
		Calls1: make([]int, len(tr.samples)),
		Calls2: make([]int, len(tr.samples)),
	}
	for i, cell := range fields[6:] {
		sub := strings.Split(cell, ":")
		if gtIdx >= len(sub) {
			tr.err = inputErrorf(tr.source, tr.line, "sample %d: missing GT subfield in %q", i, cell)
			return false
		}
		gt := sub[gtIdx]
		a1, a2, err := parseGenotype(gt)
		if err != nil {
			tr.err = inputErrorf(tr.source, tr.line, "sample %d: %v", i, err)
			return false
		}
		rec.Calls1[i] = a1
		rec.Calls2[i] = a2
	}
	tr.rec = rec
	return true
}

// gtSubfieldIndex returns the position of "GT" within a colon-
// delimited FORMAT string, or 0 if format is just "GT", empty, or has
// no "GT" subfield (the first colon-delimited subfield of the sample
// cell, or the whole cell when it has no colon, is then the call).
func gtSubfieldIndex(format string) int {
	if format == "" || format == "GT" {
		return 0
	}
	for i, f := range strings.Split(format, ":") {
		if f == "GT" {
			return i
		}
	}
	return 0
}

// parseGenotype parses a VCF-style genotype call ("0/1", "1|1",
// "./.", ".", "0") into a pair of allele indices, using missingAllele
// for no-calls. A haploid call is treated as homozygous for that
// allele (dose 2), matching how single-copy calls are usually encoded
// for diploid dose scoring in this domain.
func parseGenotype(gt string) (int, int, error) {
	if gt == "." || gt == "./." || gt == ".|." {
		return missingAllele, missingAllele, nil
	}
	sep := strings.IndexAny(gt, "/|")
	if sep < 0 {
		a, err := strconv.Atoi(gt)
		if err != nil {
			return 0, 0, inputErrorf("", 0, "invalid genotype %q", gt)
		}
		return a, a, nil
	}
	left, right := gt[:sep], gt[sep+1:]
	a1, err := parseAllele(left)
	if err != nil {
		return 0, 0, err
	}
	a2, err := parseAllele(right)
	if err != nil {
		return 0, 0, err
	}
	return a1, a2, nil
}

func parseAllele(s string) (int, error) {
	if s == "." {
		return missingAllele, nil
	}
	a, err := strconv.Atoi(s)
	if err != nil {
		return 0, inputErrorf("", 0, "invalid allele %q", s)
	}
	return a, nil
}

// Record implements VariantSource.
func (tr *TableReader) Record() *Record { return tr.rec }

// Err implements VariantSource.
func (tr *TableReader) Err() error { return tr.err }

// Close implements VariantSource.
func (tr *TableReader) Close() error { return tr.rc.Close() }
