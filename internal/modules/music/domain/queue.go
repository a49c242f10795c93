package domain

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Queue is an ordered list of tracks waiting for playback.
// It is not safe for concurrent use; callers must hold the guild lock.
type Queue struct {
	tracks []Track
}

// NewQueue creates a new empty Queue.
func NewQueue() Queue {
	return Queue{tracks: make([]Track, 0)}
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// List returns a copy of all tracks in queue order.
func (q *Queue) List() []Track {
	result := make([]Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Append adds a track to the tail and returns the new length.
func (q *Queue) Append(track Track) int {
	q.tracks = append(q.tracks, track)
	return len(q.tracks)
}

// PopFront removes and returns the head track, or nil if the queue is empty.
func (q *Queue) PopFront() *Track {
	if len(q.tracks) == 0 {
		return nil
	}
	track := q.tracks[0]
	q.tracks = q.tracks[1:]
	return &track
}

// RemoveBatch removes the tracks at the given indices and returns how many
// were removed. Indices are validated against the current length, de-duplicated
// and processed from the highest index down so earlier removals never shift the
// meaning of indices still to be processed. Invalid indices are dropped
// silently; an empty valid set is a no-op.
func (q *Queue) RemoveBatch(indices []int) int {
	seen := make(map[int]struct{}, len(indices))
	valid := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(q.tracks) {
			continue
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		valid = append(valid, i)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(valid)))

	for _, i := range valid {
		q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	}
	return len(valid)
}

// Clear removes all tracks and returns how many were removed.
func (q *Queue) Clear() int {
	count := len(q.tracks)
	q.tracks = q.tracks[:0]
	return count
}

// Shuffle randomly permutes the queue order. It is a no-op for fewer than
// two tracks; the return value reports whether the queue was shuffled.
func (q *Queue) Shuffle(rng *rand.Rand) bool {
	if len(q.tracks) < 2 {
		return false
	}

	swap := func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	}
	if rng != nil {
		rng.Shuffle(len(q.tracks), swap)
	} else {
		rand.Shuffle(len(q.tracks), swap)
	}
	return true
}

// ParseIndexList leniently parses a comma-separated list of queue indices.
// Whitespace is ignored and unparsable entries are dropped; range validation
// is left to RemoveBatch.
func ParseIndexList(input string) []int {
	cleaned := strings.Join(strings.Fields(input), "")
	if cleaned == "" {
		return nil
	}

	var indices []int
	for _, part := range strings.Split(cleaned, ",") {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	return indices
}
