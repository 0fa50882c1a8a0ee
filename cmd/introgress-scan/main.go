// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"os"

	"github.com/glacio-bio/introgress"
)

func main() {
	os.Exit(introgress.Main())
}
