package streets

// Segmentation collapses the stops of one trip into runs on the same street
// and answers, for each stop, which streets the trip goes through next.
type Segmentation struct {
	segments  []string
	segmentOf []int
	// upcoming[i] lists the streets of every segment after i.
	upcoming [][]string
}

// Segment canonicalizes each name with canon (memoized per distinct name) and
// groups consecutive stops that share a street.
func Segment(names []string, canon func(string) string) *Segmentation {
	s := &Segmentation{segmentOf: make([]int, len(names))}

	memo := make(map[string]string, len(names))
	for i, name := range names {
		street, ok := memo[name]
		if !ok {
			street = canon(name)
			memo[name] = street
		}
		if len(s.segments) == 0 || street != s.segments[len(s.segments)-1] {
			s.segments = append(s.segments, street)
		}
		s.segmentOf[i] = len(s.segments) - 1
	}

	s.upcoming = make([][]string, len(s.segments))
	var suffix []string
	for i := len(s.segments) - 1; i >= 0; i-- {
		s.upcoming[i] = suffix
		next := make([]string, 0, len(suffix)+1)
		next = append(next, s.segments[i])
		suffix = append(next, suffix...)
	}
	return s
}

// segmentStreets returns the street of every segment in trip order.
func (s *Segmentation) segmentStreets() []string {
	out := make([]string, len(s.segments))
	copy(out, s.segments)
	return out
}

// NextStreets returns the streets after the segment holding stop i. The
// caller owns the returned slice.
func (s *Segmentation) NextStreets(i int) []string {
	if i < 0 || i >= len(s.segmentOf) {
		return []string{}
	}
	upcoming := s.upcoming[s.segmentOf[i]]
	out := make([]string, len(upcoming))
	copy(out, upcoming)
	return out
}
