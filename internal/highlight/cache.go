package highlight

// lineState is the cached incoming range stack of one line.
type lineState struct {
	valid bool
	in    Stack
}

// lineCache maps line numbers to their incoming state. Entry len(lines)-1 is
// the state after the last line of the buffer.
type lineCache struct {
	lines  []lineState
	writes int
}

// resize makes room for a buffer of n lines. Entries past the end are
// dropped; new entries start invalid.
func (c *lineCache) resize(n int) {
	want := n + 1
	switch {
	case len(c.lines) > want:
		c.lines = c.lines[:want]
	case len(c.lines) < want:
		c.lines = append(c.lines, make([]lineState, want-len(c.lines))...)
	}
}

func (c *lineCache) valid(line int) bool {
	return line >= 0 && line < len(c.lines) && c.lines[line].valid
}

// incoming returns the cached state of line. Reading an invalid entry is a
// coordinator bug and panics.
func (c *lineCache) incoming(line int) Stack {
	if !c.valid(line) {
		panic(&CacheInconsistency{Line: line})
	}
	return c.lines[line].in
}

func (c *lineCache) store(line int, s Stack) {
	if line >= len(c.lines) {
		c.lines = append(c.lines, make([]lineState, line+1-len(c.lines))...)
	}
	c.lines[line] = lineState{valid: true, in: s}
	c.writes++
}

// nearestValid returns the closest valid entry at or before line, or -1.
func (c *lineCache) nearestValid(line int) int {
	if line >= len(c.lines) {
		line = len(c.lines) - 1
	}
	for ; line >= 0; line-- {
		if c.lines[line].valid {
			return line
		}
	}
	return -1
}

// invalidateFrom marks line and every later entry invalid.
func (c *lineCache) invalidateFrom(line int) {
	if line < 0 {
		line = 0
	}
	for i := line; i < len(c.lines); i++ {
		c.lines[i] = lineState{}
	}
}

// remove drops the entries of lines [first, last] and invalidates the lines
// that move up to take their place.
func (c *lineCache) remove(first, last int) {
	if first < 0 {
		first = 0
	}
	if first >= len(c.lines) {
		return
	}
	if last >= len(c.lines) {
		last = len(c.lines) - 1
	}
	if last >= first {
		c.lines = append(c.lines[:first], c.lines[last+1:]...)
	}
	c.invalidateFrom(first)
}

func (c *lineCache) validCount() int {
	n := 0
	for _, l := range c.lines {
		if l.valid {
			n++
		}
	}
	return n
}

func (c *lineCache) reset() {
	c.lines = nil
}
