package domain

// RecursionKind tells which block of the parent split a recursive call works on.
type RecursionKind int

const (
	KindHead   RecursionKind = -1
	KindMiddle RecursionKind = 0
	KindTail   RecursionKind = 1
	// KindRoot shares the middle value: the root call, like a middle block,
	// is bounded on both sides.
	KindRoot = KindMiddle
)

func (k RecursionKind) String() string {
	switch k {
	case KindHead:
		return "head"
	case KindTail:
		return "tail"
	default:
		return "middle"
	}
}

// SplitTrace describes where the plans of a recursive call sit inside the
// original plans.
type SplitTrace struct {
	// LeftEdge is true when the plans still start with the border marker.
	LeftEdge bool
	// RightEdge is true when the plans still end with the border marker.
	RightEdge bool
	Kind      RecursionKind
	// Pivot is the split action of the parent call, empty at the root.
	Pivot string
}

// RootTrace is the trace of the top-level induction call.
func RootTrace() SplitTrace {
	return SplitTrace{LeftEdge: true, RightEdge: true, Kind: KindRoot}
}
