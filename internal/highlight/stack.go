package highlight

import "strings"

// Stack is the ordered set of ranges open at a point of a scan, innermost
// last. It is the only state carried from one line to the next.
//
// A Stack is a value: Push and Pop return new stacks and never modify the
// receiver, so cached line states can be shared freely.
type Stack struct {
	frames []*RangeDesc
}

// Depth returns the number of open ranges.
func (s Stack) Depth() int { return len(s.frames) }

// Empty reports whether no range is open.
func (s Stack) Empty() bool { return len(s.frames) == 0 }

// Top returns the innermost open range, or nil.
func (s Stack) Top() *RangeDesc {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Frames returns a copy of the open ranges, outermost first.
func (s Stack) Frames() []*RangeDesc {
	return append([]*RangeDesc(nil), s.frames...)
}

// Push returns the stack with r opened inside the current innermost range.
func (s Stack) Push(r *RangeDesc) Stack {
	frames := make([]*RangeDesc, len(s.frames)+1)
	copy(frames, s.frames)
	frames[len(s.frames)] = r
	return Stack{frames: frames}
}

// Pop returns the stack without its innermost range.
func (s Stack) Pop() Stack {
	n := len(s.frames)
	if n == 0 {
		return s
	}
	return Stack{frames: s.frames[: n-1 : n-1]}
}

// Equal reports whether both stacks hold the same ranges in the same order.
func (s Stack) Equal(o Stack) bool {
	if len(s.frames) != len(o.frames) {
		return false
	}
	for i := range s.frames {
		if s.frames[i] != o.frames[i] {
			return false
		}
	}
	return true
}

// closeAtEOL drops the outermost one-line range and everything opened
// inside it.
func (s Stack) closeAtEOL() Stack {
	for i, r := range s.frames {
		if r.oneLine {
			return Stack{frames: s.frames[:i:i]}
		}
	}
	return s
}

// String returns the open ranges, outermost first.
func (s Stack) String() string {
	names := make([]string, len(s.frames))
	for i, r := range s.frames {
		names[i] = r.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}
