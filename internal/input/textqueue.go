package input

// textQueueSize is the number of slots in the ring. One slot always stays
// empty to tell a full ring from an empty one.
const textQueueSize = 256

// TextEntry is one buffered text-input event.
type TextEntry struct {
	// Key is the editing code or raw key that was current when the entry was
	// queued. Zero when no key was current.
	Key uint32
	// Unicode is the decoded codepoint, zero for bare editing keys.
	Unicode rune
}

// TextQueue is a fixed-capacity ring of text-input entries.
// A full queue drops new entries.
type TextQueue struct {
	buf        [textQueueSize]TextEntry
	start, end int
}

func next(i int) int {
	if i+1 == textQueueSize {
		return 0
	}
	return i + 1
}

// Push appends an entry. It reports false when the queue was full and the
// entry was dropped.
func (q *TextQueue) Push(e TextEntry) bool {
	n := next(q.end)
	if n == q.start {
		return false
	}
	q.buf[q.end] = e
	q.end = n
	return true
}

// Pop removes the oldest entry.
func (q *TextQueue) Pop() (TextEntry, bool) {
	if q.start == q.end {
		return TextEntry{}, false
	}
	e := q.buf[q.start]
	q.start = next(q.start)
	return e, true
}

// Len returns the number of queued entries.
func (q *TextQueue) Len() int {
	if q.end >= q.start {
		return q.end - q.start
	}
	return textQueueSize - q.start + q.end
}

// Clear drops every queued entry.
func (q *TextQueue) Clear() {
	q.start, q.end = 0, 0
}
