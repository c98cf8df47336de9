package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// Fragment is the transcription outcome for one audio segment. Index is the
// segment's temporal position and the sole ordering key; a non-nil Err marks
// a failed transcription.
type Fragment struct {
	Index int
	Text  string
	Err   error
}

// Failed reports whether the fragment's transcription attempt failed
func (f Fragment) Failed() bool {
	return f.Err != nil
}

// Assemble joins fragment texts into one transcript, strictly in ascending
// segment index order regardless of the order fragments arrived in. Each
// text is trimmed before joining with a single newline. Failed fragments
// contribute an inline marker instead of being dropped, so gaps stay
// visible in the final transcript.
func Assemble(fragments []Fragment) string {
	ordered := make([]Fragment, len(fragments))
	copy(ordered, fragments)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	lines := make([]string, 0, len(ordered))
	for _, f := range ordered {
		if f.Failed() {
			lines = append(lines, fmt.Sprintf("[文字起こし失敗: %v]", f.Err))
			continue
		}
		lines = append(lines, strings.TrimSpace(f.Text))
	}

	return strings.Join(lines, "\n")
}
