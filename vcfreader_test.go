// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"os"
	"path/filepath"

	"gopkg.in/check.v1"
)

type vcfreaderSuite struct{}

var _ = check.Suite(&vcfreaderSuite{})

func writeTable(c *check.C, body string) string {
	dir := c.MkDir()
	path := filepath.Join(dir, "t.tsv")
	c.Assert(os.WriteFile(path, []byte(body), 0644), check.IsNil)
	return path
}

func (s *vcfreaderSuite) TestReadsBasicGenotypes(c *check.C) {
	path := writeTable(c, "CHROM\tPOS\tID\tREF\tALT\tFORMAT\ts1\ts2\n1\t100\trs1\tA\tC\tGT\t0/1\t1/1\n")
	chroms := NewChromResolver()
	tr, err := OpenTableReader(path, chroms)
	c.Assert(err, check.IsNil)
	defer tr.Close()
	c.Check(tr.Samples(), check.DeepEquals, []string{"s1", "s2"})
	c.Assert(tr.Next(), check.Equals, true)
	rec := tr.Record()
	c.Check(rec.Marker.Pos, check.Equals, 100)
	c.Check(rec.Marker.Alleles, check.DeepEquals, []string{"A", "C"})
	c.Check(rec.Calls1, check.DeepEquals, []int{0, 1})
	c.Check(rec.Calls2, check.DeepEquals, []int{1, 1})
	c.Check(tr.Next(), check.Equals, false)
	c.Check(tr.Err(), check.IsNil)
}

func (s *vcfreaderSuite) TestToleratesLeadingHashChrom(c *check.C) {
	path := writeTable(c, "#CHROM\tPOS\tID\tREF\tALT\tFORMAT\ts1\n1\t1\trs1\tA\tC\tGT\t0/0\n")
	chroms := NewChromResolver()
	tr, err := OpenTableReader(path, chroms)
	c.Assert(err, check.IsNil)
	defer tr.Close()
	c.Check(tr.Samples(), check.DeepEquals, []string{"s1"})
}

func (s *vcfreaderSuite) TestMissingGenotypeParsed(c *check.C) {
	path := writeTable(c, "CHROM\tPOS\tID\tREF\tALT\tFORMAT\ts1\n1\t1\trs1\tA\tC\tGT\t./.\n")
	chroms := NewChromResolver()
	tr, err := OpenTableReader(path, chroms)
	c.Assert(err, check.IsNil)
	defer tr.Close()
	c.Assert(tr.Next(), check.Equals, true)
	rec := tr.Record()
	c.Check(rec.Calls1[0], check.Equals, missingAllele)
	c.Check(rec.Calls2[0], check.Equals, missingAllele)
}

func (s *vcfreaderSuite) TestHaploidCallIsTreatedAsHomozygous(c *check.C) {
	path := writeTable(c, "CHROM\tPOS\tID\tREF\tALT\tFORMAT\ts1\n1\t1\trs1\tA\tC\tGT\t1\n")
	chroms := NewChromResolver()
	tr, err := OpenTableReader(path, chroms)
	c.Assert(err, check.IsNil)
	defer tr.Close()
	c.Assert(tr.Next(), check.Equals, true)
	rec := tr.Record()
	c.Check(rec.Calls1[0], check.Equals, 1)
	c.Check(rec.Calls2[0], check.Equals, 1)
}

func (s *vcfreaderSuite) TestFormatWithExtraSubfieldsLocatesGT(c *check.C) {
	path := writeTable(c, "CHROM\tPOS\tID\tREF\tALT\tFORMAT\ts1\n1\t1\trs1\tA\tC\tDP:GT\t30:0/1\n")
	chroms := NewChromResolver()
	tr, err := OpenTableReader(path, chroms)
	c.Assert(err, check.IsNil)
	defer tr.Close()
	c.Assert(tr.Next(), check.Equals, true)
	rec := tr.Record()
	c.Check(rec.Calls1[0], check.Equals, 0)
	c.Check(rec.Calls2[0], check.Equals, 1)
}

func (s *vcfreaderSuite) TestEmptyFileIsInputFormatError(c *check.C) {
	path := writeTable(c, "")
	chroms := NewChromResolver()
	_, err := OpenTableReader(path, chroms)
	c.Assert(err, check.NotNil)
	_, ok := err.(*InputFormatError)
	c.Check(ok, check.Equals, true)
}

func (s *vcfreaderSuite) TestShortHeaderIsInputFormatError(c *check.C) {
	path := writeTable(c, "CHROM\tPOS\tID\n")
	chroms := NewChromResolver()
	_, err := OpenTableReader(path, chroms)
	c.Assert(err, check.NotNil)
}

func (s *vcfreaderSuite) TestRowColumnCountMismatchIsInputFormatError(c *check.C) {
	path := writeTable(c, "CHROM\tPOS\tID\tREF\tALT\tFORMAT\ts1\ts2\n1\t1\trs1\tA\tC\tGT\t0/1\n")
	chroms := NewChromResolver()
	tr, err := OpenTableReader(path, chroms)
	c.Assert(err, check.IsNil)
	defer tr.Close()
	c.Check(tr.Next(), check.Equals, false)
	c.Assert(tr.Err(), check.NotNil)
	_, ok := tr.Err().(*InputFormatError)
	c.Check(ok, check.Equals, true)
}
