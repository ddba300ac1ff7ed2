package feed

// Phase is the coarse loading state of the feed.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoadingFirst
	PhaseLoaded
	PhaseLoadingMore
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingFirst:
		return "loading-first"
	case PhaseLoaded:
		return "loaded"
	case PhaseLoadingMore:
		return "loading-more"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of the feed handed to observers. Rows share
// images with the machine; image slices are replaced, never written, on patch.
type Snapshot struct {
	Rows       []RowItem
	Count      *CountRow
	Total      int
	TotalKnown bool
	PageSize   int
	Offset     int
	Loading    bool
	Loaded     bool
	Complete   bool
	Phase      Phase
	Generation uint64
	Err        error
}
