// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// openMaybeGzip opens fnm, transparently decompressing it if the name
// ends in ".gz", matching spec.md §6's "gzip-encoded input is
// accepted" for the variant table and genetic map. Modeled on the
// teacher's zopen/gzipr (arvados.go), minus the Arvados-specific
// collection-path resolution dropped per DESIGN.md.
func openMaybeGzip(fnm string) (io.ReadCloser, error) {
	f, err := os.Open(fnm)
	if err != nil || !strings.HasSuffix(fnm, ".gz") {
		return f, err
	}
	rdr, err := pgzip.NewReader(bufio.NewReaderSize(f, 4*1024*1024))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipReadCloser{rdr, f}, nil
}

// gzipReadCloser wraps a gzip Reader and the underlying file, closing
// both from a single Close call.
type gzipReadCloser struct {
	io.ReadCloser
	f *os.File
}

func (g *gzipReadCloser) Close() error {
	e1 := g.ReadCloser.Close()
	e2 := g.f.Close()
	if e1 != nil {
		return e1
	}
	return e2
}
