// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import "gopkg.in/check.v1"

type configSuite struct{}

var _ = check.Suite(&configSuite{})

func baseConfig() *Config {
	return &Config{
		VariantTable: "variants.tsv",
		OutgroupFile: "outgroup.txt",
		GeneticMap:   "map.txt",
		OutPrefix:    "run1",
		MaxFreq:      DefaultMaxFreq,
		MinScore:     DefaultMinScore,
		Mu:           DefaultMu,
	}
}

func (s *configSuite) TestValidConfigPasses(c *check.C) {
	c.Check(baseConfig().Validate(), check.IsNil)
}

func (s *configSuite) TestMissingRequiredFieldIsConfigError(c *check.C) {
	cfg := baseConfig()
	cfg.VariantTable = ""
	err := cfg.Validate()
	c.Assert(err, check.NotNil)
	_, ok := err.(*ConfigError)
	c.Check(ok, check.Equals, true)
}

func (s *configSuite) TestMaxFreqOutOfRangeIsConfigError(c *check.C) {
	cfg := baseConfig()
	cfg.MaxFreq = 1.5
	c.Assert(cfg.Validate(), check.NotNil)
	cfg2 := baseConfig()
	cfg2.MaxFreq = -0.1
	c.Assert(cfg2.Validate(), check.NotNil)
}

func (s *configSuite) TestNonPositiveMuIsConfigError(c *check.C) {
	cfg := baseConfig()
	cfg.Mu = 0
	c.Assert(cfg.Validate(), check.NotNil)
}

func (s *configSuite) TestOutputPathCollisionIsConfigError(c *check.C) {
	cfg := baseConfig()
	cfg.VariantTable = "run1.log"
	c.Assert(cfg.Validate(), check.NotNil)
}

func (s *configSuite) TestLogAndScorePaths(c *check.C) {
	cfg := baseConfig()
	c.Check(cfg.LogPath(), check.Equals, "run1.log")
	c.Check(cfg.ScorePath(), check.Equals, "run1.score")
}
