// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import "gopkg.in/check.v1"

type markerSuite struct{}

var _ = check.Suite(&markerSuite{})

func (s *markerSuite) TestLessByChrom(c *check.C) {
	a := Marker{Chrom: 1, Pos: 100, Alleles: []string{"A", "C"}}
	b := Marker{Chrom: 2, Pos: 50, Alleles: []string{"A", "C"}}
	c.Check(a.Less(b), check.Equals, true)
	c.Check(b.Less(a), check.Equals, false)
}

func (s *markerSuite) TestLessByPos(c *check.C) {
	a := Marker{Chrom: 1, Pos: 100, Alleles: []string{"A", "C"}}
	b := Marker{Chrom: 1, Pos: 200, Alleles: []string{"A", "C"}}
	c.Check(a.Less(b), check.Equals, true)
}

func (s *markerSuite) TestLessByAlleles(c *check.C) {
	a := Marker{Chrom: 1, Pos: 100, Alleles: []string{"A", "C"}}
	b := Marker{Chrom: 1, Pos: 100, Alleles: []string{"A", "G"}}
	c.Check(a.Less(b), check.Equals, true)
	c.Check(b.Less(a), check.Equals, false)
}

func (s *markerSuite) TestRefAlt(c *check.C) {
	m := Marker{Alleles: []string{"A", "C", "G"}}
	c.Check(m.Ref(), check.Equals, "A")
	c.Check(m.Alt(), check.Equals, "C,G")
}

func (s *markerSuite) TestAltNoAlt(c *check.C) {
	m := Marker{Alleles: []string{"A"}}
	c.Check(m.Alt(), check.Equals, ".")
}
