package vpath

// Components iterates over a path's components from either end. It holds
// a read-only view of the path and two cursors, a forward one and a
// backward one, with forward <= backward at all times. Once the cursors
// meet, iteration in either direction is exhausted.
//
// The separator is a single byte that cannot occur inside a multi-byte
// UTF-8 sequence, so every slice the iterator produces falls on a valid
// text boundary.
type Components struct {
	path string
	i, j int
}

// trimLeft advances the forward cursor past any run of separators.
func (c *Components) trimLeft() {
	for c.i < c.j && c.path[c.i] == Separator {
		c.i++
	}
}

// trimRight retreats the backward cursor past any run of separators.
func (c *Components) trimRight() {
	for c.i < c.j && c.path[c.j-1] == Separator {
		c.j--
	}
}

// Next consumes and returns the next component from the front. It
// returns false when no component remains before the backward cursor.
func (c *Components) Next() (Path, bool) {
	c.trimLeft()
	start := c.i
	for c.i < c.j && c.path[c.i] != Separator {
		c.i++
	}
	end := c.i
	c.trimLeft()
	if start == end {
		return "", false
	}
	return Path(c.path[start:end]), true
}

// NextBack consumes and returns the next component from the back. It
// returns false when no component remains after the forward cursor.
func (c *Components) NextBack() (Path, bool) {
	c.trimRight()
	end := c.j
	for c.i < c.j && c.path[c.j-1] != Separator {
		c.j--
	}
	start := c.j
	c.trimRight()
	if start == end {
		return "", false
	}
	return Path(c.path[start:end]), true
}

// Rest returns the unconsumed part of the path as a valid, possibly
// empty Path. Because Next and NextBack eat the separators adjacent to
// what they consume, the remainder of "/a/b/c" after one Next is "b/c"
// and after one NextBack is "/a/b"; the remainder of "/" after one
// NextBack is "".
func (c *Components) Rest() Path {
	return Path(c.path[c.i:c.j])
}

// Clone returns an independent copy of the iterator's current state.
func (c *Components) Clone() *Components {
	cp := *c
	return &cp
}
