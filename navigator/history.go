package navigator

import "math"

// History holds the scores of accepted forward moves, newest last. Backtracking pops the
// newest score so the guard follows the current branch of the exploration tree.
type History struct {
	scores []float64
}

// Push records the score of an accepted forward move.
func (h *History) Push(score float64) {
	h.scores = append(h.scores, score)
}

// Pop removes the newest score. It reports false when the history is empty.
func (h *History) Pop() (float64, bool) {
	if len(h.scores) == 0 {
		return 0, false
	}
	last := h.scores[len(h.scores)-1]
	h.scores = h.scores[:len(h.scores)-1]
	return last, true
}

// Len returns the number of recorded scores.
func (h *History) Len() int {
	return len(h.scores)
}

// Guard returns the best (lowest) of the last n scores, or +Inf when there are none.
func (h *History) Guard(n int) float64 {
	guard := math.Inf(1)
	if n <= 0 {
		return guard
	}
	start := max(len(h.scores)-n, 0)
	for _, s := range h.scores[start:] {
		guard = math.Min(guard, s)
	}
	return guard
}

// Reset drops every recorded score.
func (h *History) Reset() {
	h.scores = h.scores[:0]
}
