package domain

// Outcome reports whether an index- or id-addressed mutation took effect.
// Stale references are not errors: callers get an Ignored* outcome and the
// collection is left untouched.
type Outcome int

const (
	// Applied means the mutation changed the collection.
	Applied Outcome = iota
	// IgnoredNotFound means the trip id did not resolve.
	IgnoredNotFound
	// IgnoredOutOfRange means the index was negative or past the end.
	IgnoredOutOfRange
)

// Applied reports whether the mutation took effect.
func (o Outcome) Applied() bool { return o == Applied }

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case IgnoredNotFound:
		return "ignored:not-found"
	case IgnoredOutOfRange:
		return "ignored:out-of-range"
	default:
		return "unknown"
	}
}

// inRange reports whether i addresses an element of a sequence of length n.
func inRange(i, n int) bool {
	return i >= 0 && i < n
}
