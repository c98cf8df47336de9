package segmenter

import "context"

// Segment is one bounded-duration slice of the source audio. Index is the
// temporal position and the ordering key for every downstream stage.
type Segment struct {
	Index        int
	Path         string
	DurationHint float64
}

// Segmenter splits an audio file into consecutive bounded-length segments
type Segmenter interface {
	Split(ctx context.Context, audioPath string, maxSegmentSeconds int) ([]Segment, error)
}
