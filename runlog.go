// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Version is the program version reported in the log file (spec.md
// §6). Overridden at build time via -ldflags if desired.
var Version = "dev"

// RunFingerprint returns a short hex digest of the run's
// configuration (every input path, the chrom filter, and the numeric
// parameters), written to the log file as a reproducibility
// fingerprint. This repurposes the teacher's blake2b content-addressing
// idiom (arvados.go's "properties.blake2b" tile-variant hash, dump.go's
// hash-based variant dedup) from a dedup key into a run fingerprint:
// two runs with the same fingerprint were given the same input paths
// and parameters. File contents are not hashed, so a file edited in
// place between runs leaves the fingerprint unchanged.
func RunFingerprint(cfg *Config) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "gt=%s\noutgroup=%s\nmap=%s\nexcludesamples=%s\nexcludemarkers=%s\nchrom=%s\nmaxfreq=%v\nminscore=%v\nmu=%v\n",
		cfg.VariantTable, cfg.OutgroupFile, cfg.GeneticMap, cfg.ExcludeSamples, cfg.ExcludeMarkers, cfg.Chrom, cfg.MaxFreq, cfg.MinScore, cfg.Mu)
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// WriteRunLog writes the free-form log file spec.md §6 requires:
// version, command line, outgroup/target sample counts, variant and
// segment counts, and elapsed time. Not machine-parsed.
func WriteRunLog(w io.Writer, cfg *Config, stats *RunStats, args []string, elapsed time.Duration) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "introgress %s\n", Version)
	fmt.Fprintf(bw, "command line: %s\n", strings.Join(args, " "))
	fmt.Fprintf(bw, "fingerprint: %s\n", RunFingerprint(cfg))
	fmt.Fprintf(bw, "outgroup samples: %d\n", stats.NumOutgroup)
	fmt.Fprintf(bw, "target samples: %d\n", stats.NumTarget)
	fmt.Fprintf(bw, "chromosomes analyzed: %d\n", stats.NumChroms)
	fmt.Fprintf(bw, "variants analyzed: %d\n", stats.NumVariants)
	fmt.Fprintf(bw, "segments found: %d\n", stats.NumSegments)
	fmt.Fprintf(bw, "elapsed: %s\n", elapsed.Round(time.Millisecond))
	return bw.Flush()
}

// CreateRunLog opens cfg.LogPath() for writing, truncating any
// existing file.
func CreateRunLog(cfg *Config) (*os.File, error) {
	return os.Create(cfg.LogPath())
}
