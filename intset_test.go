// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import "gopkg.in/check.v1"

type intsetSuite struct{}

var _ = check.Suite(&intsetSuite{})

func (s *intsetSuite) TestAddHasLen(c *check.C) {
	set := newIndexSet(4)
	c.Check(set.Add(5), check.Equals, true)
	c.Check(set.Add(7), check.Equals, true)
	c.Check(set.Add(5), check.Equals, false)
	c.Check(set.Len(), check.Equals, 2)
	c.Check(set.Has(5), check.Equals, true)
	c.Check(set.Has(6), check.Equals, false)
}

func (s *intsetSuite) TestRemoveSwapsWithLast(c *check.C) {
	set := newIndexSet(4)
	set.Add(1)
	set.Add(2)
	set.Add(3)
	c.Check(set.Remove(1), check.Equals, true)
	c.Check(set.Len(), check.Equals, 2)
	c.Check(set.Has(1), check.Equals, false)
	c.Check(set.Has(2), check.Equals, true)
	c.Check(set.Has(3), check.Equals, true)
	c.Check(set.Remove(1), check.Equals, false)
}

func (s *intsetSuite) TestEachVisitsEveryElement(c *check.C) {
	set := newIndexSet(4)
	for _, v := range []int{10, 20, 30} {
		set.Add(v)
	}
	seen := map[int]bool{}
	set.Each(func(v int) { seen[v] = true })
	c.Check(seen, check.HasLen, 3)
	c.Check(seen[10], check.Equals, true)
	c.Check(seen[20], check.Equals, true)
	c.Check(seen[30], check.Equals, true)
}

func (s *intsetSuite) TestSorted(c *check.C) {
	set := newIndexSet(4)
	for _, v := range []int{30, 10, 20} {
		set.Add(v)
	}
	c.Check(set.sorted(), check.DeepEquals, []int{10, 20, 30})
}
