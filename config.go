// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"flag"
	"fmt"
)

// Config is the enumerated, immutable option record for one run,
// spec.md §6/§9 ("Configuration as an enumerated record... express as
// an immutable struct with defaults, not a string-to-string map").
// Populated by Flags, mirroring the teacher's importer/batchArgs
// field-and-Flags()-method shape (import.go, batchargs.go).
type Config struct {
	VariantTable   string
	OutgroupFile   string
	GeneticMap     string
	OutPrefix      string
	ExcludeSamples string
	ExcludeMarkers string
	Chrom          string
	MaxFreq        float64
	MinScore       float64
	Mu             float64
}

// DefaultMaxFreq, DefaultMinScore, and DefaultMu are spec.md §6's
// documented parameter defaults.
const (
	DefaultMaxFreq  = 0.01
	DefaultMinScore = 100000.0
	DefaultMu       = 1.2e-8
)

// Flags registers cfg's fields on flags with spec.md §6's defaults.
func (cfg *Config) Flags(flags *flag.FlagSet) {
	flags.StringVar(&cfg.VariantTable, "gt", "", "variant table `file` (required)")
	flags.StringVar(&cfg.OutgroupFile, "outgroup", "", "outgroup sample identifier list `file` (required)")
	flags.StringVar(&cfg.GeneticMap, "map", "", "PLINK-style genetic map `file` (required)")
	flags.StringVar(&cfg.OutPrefix, "out", "", "output `prefix`; writes prefix.log and prefix.score (required)")
	flags.StringVar(&cfg.ExcludeSamples, "excludesamples", "", "sample exclusion list `file`")
	flags.StringVar(&cfg.ExcludeMarkers, "excludemarkers", "", "marker exclusion list `file`")
	flags.StringVar(&cfg.Chrom, "chrom", "", "restrict to `[id]` or `[id]:[start]-[end]`")
	flags.Float64Var(&cfg.MaxFreq, "maxfreq", DefaultMaxFreq, "outgroup allele-frequency ceiling")
	flags.Float64Var(&cfg.MinScore, "minscore", DefaultMinScore, "segment acceptance score threshold")
	flags.Float64Var(&cfg.Mu, "mu", DefaultMu, "mutation rate per bp per meiosis")
}

// Validate checks the parameter constraints of spec.md §6/§7.1:
// required fields present, maxfreq in [0,1], mu strictly positive,
// and neither output path (LogPath, ScorePath) equal to an input path.
func (cfg *Config) Validate() error {
	if cfg.VariantTable == "" {
		return configErrorf("-gt is required")
	}
	if cfg.OutgroupFile == "" {
		return configErrorf("-outgroup is required")
	}
	if cfg.GeneticMap == "" {
		return configErrorf("-map is required")
	}
	if cfg.OutPrefix == "" {
		return configErrorf("-out is required")
	}
	if cfg.MaxFreq < 0 || cfg.MaxFreq > 1 {
		return configErrorf("-maxfreq must be in [0,1], got %v", cfg.MaxFreq)
	}
	if cfg.Mu <= 0 {
		return configErrorf("-mu must be strictly positive, got %v", cfg.Mu)
	}
	logPath, scorePath := cfg.LogPath(), cfg.ScorePath()
	for _, in := range []string{cfg.VariantTable, cfg.OutgroupFile, cfg.GeneticMap, cfg.ExcludeSamples, cfg.ExcludeMarkers} {
		if in == "" {
			continue
		}
		if in == logPath || in == scorePath {
			return configErrorf("output path %q collides with an input file", in)
		}
	}
	return nil
}

// LogPath and ScorePath implement spec.md §6's output path contract:
// "${out}.log" and "${out}.score".
func (cfg *Config) LogPath() string   { return fmt.Sprintf("%s.log", cfg.OutPrefix) }
func (cfg *Config) ScorePath() string { return fmt.Sprintf("%s.score", cfg.OutPrefix) }
