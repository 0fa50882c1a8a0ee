// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/pgzip"
	"gopkg.in/check.v1"
)

type gzopenSuite struct{}

var _ = check.Suite(&gzopenSuite{})

func (s *gzopenSuite) TestOpensPlainFile(c *check.C) {
	dir := c.MkDir()
	path := filepath.Join(dir, "plain.txt")
	c.Assert(os.WriteFile(path, []byte("hello\n"), 0644), check.IsNil)
	rc, err := openMaybeGzip(path)
	c.Assert(err, check.IsNil)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	c.Assert(err, check.IsNil)
	c.Check(string(data), check.Equals, "hello\n")
}

func (s *gzopenSuite) TestDecompressesGzSuffix(c *check.C) {
	dir := c.MkDir()
	path := filepath.Join(dir, "data.txt.gz")
	f, err := os.Create(path)
	c.Assert(err, check.IsNil)
	gw := pgzip.NewWriter(f)
	_, err = gw.Write([]byte("compressed content\n"))
	c.Assert(err, check.IsNil)
	c.Assert(gw.Close(), check.IsNil)
	c.Assert(f.Close(), check.IsNil)

	rc, err := openMaybeGzip(path)
	c.Assert(err, check.IsNil)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	c.Assert(err, check.IsNil)
	c.Check(string(data), check.Equals, "compressed content\n")
}

func (s *gzopenSuite) TestMissingFileReturnsError(c *check.C) {
	_, err := openMaybeGzip("/nonexistent/path/does-not-exist.txt")
	c.Assert(err, check.NotNil)
}
