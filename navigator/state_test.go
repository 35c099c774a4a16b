package navigator

import (
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-bot/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observe(s *State, x, y int) {
	s.Apply(PositionObserved{Cell: maze.Position{X: x, Y: y}})
}

func TestStateApplyPosition(t *testing.T) {
	t.Run("first position becomes the start", func(t *testing.T) {
		s := NewState()
		s.Apply(GoalAnnounced{Cell: maze.Position{X: 4, Y: 0}})
		s.Apply(PositionObserved{Cell: maze.Position{X: 0, Y: 4}, Walls: maze.Walls{Left: true}})

		start, ok := s.Start()
		require.True(t, ok)
		assert.Equal(t, maze.Position{X: 0, Y: 4}, start)

		cur, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, start, cur)

		_, ok = s.Last()
		assert.False(t, ok)

		_, ok = s.Visited().Parent(start)
		assert.False(t, ok)
		assert.True(t, s.Visited().Contains(start))
		assert.Equal(t, maze.Walls{Left: true}, s.Walls())
		assert.Equal(t, maze.Position{X: 4, Y: 4}, s.Extent())
	})

	t.Run("transition records the parent", func(t *testing.T) {
		s := NewState()
		observe(s, 0, 4)
		observe(s, 1, 4)

		parent, ok := s.Visited().Parent(maze.Position{X: 1, Y: 4})
		require.True(t, ok)
		assert.Equal(t, maze.Position{X: 0, Y: 4}, parent)

		last, ok := s.Last()
		require.True(t, ok)
		assert.Equal(t, maze.Position{X: 0, Y: 4}, last)
	})

	t.Run("duplicate echo is a no-op", func(t *testing.T) {
		s := NewState()
		observe(s, 0, 4)
		observe(s, 1, 4)
		s.Apply(PositionObserved{Cell: maze.Position{X: 1, Y: 4}, Walls: maze.AllWalls})

		last, _ := s.Last()
		assert.Equal(t, maze.Position{X: 0, Y: 4}, last)
		assert.Equal(t, maze.Walls{}, s.Walls())
		assert.Equal(t, 2, s.Visited().Len())
	})

	t.Run("revisiting keeps the original parent", func(t *testing.T) {
		s := NewState()
		observe(s, 0, 4)
		observe(s, 1, 4)
		observe(s, 1, 3)
		observe(s, 0, 3)
		observe(s, 0, 4)
		observe(s, 1, 4)

		parent, ok := s.Visited().Parent(maze.Position{X: 1, Y: 4})
		require.True(t, ok)
		assert.Equal(t, maze.Position{X: 0, Y: 4}, parent)

		_, ok = s.Visited().Parent(maze.Position{X: 0, Y: 4})
		assert.False(t, ok, "the root never gains a parent")
	})
}

func TestStateTreeInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	bound := maze.Position{X: 7, Y: 7}

	s := NewState()
	pos := maze.Position{X: 0, Y: 7}
	s.Apply(PositionObserved{Cell: pos})
	firstParent := map[maze.Position]maze.Position{}

	for i := 0; i < 500; i++ {
		d := maze.Directions[rng.Intn(len(maze.Directions))]
		next := pos.Move(d)
		if !next.InBounds(bound) {
			continue
		}
		s.Apply(PositionObserved{Cell: next})
		pos = next

		if p, ok := s.Visited().Parent(pos); ok {
			if recorded, seen := firstParent[pos]; seen {
				require.Equal(t, recorded, p, "parent of %v reassigned", pos)
			} else {
				firstParent[pos] = p
			}
		}
	}

	root, _ := s.Start()
	for cell := range s.Visited() {
		steps := 0
		for cur := cell; cur != root; steps++ {
			p, ok := s.Visited().Parent(cur)
			require.True(t, ok, "chain from %v broke at %v", cell, cur)
			require.LessOrEqual(t, steps, s.Visited().Len(), "cycle from %v", cell)
			cur = p
		}
		assert.Equal(t, s.Visited().Depth(cell), steps)
	}
}

func TestStateGoalReset(t *testing.T) {
	build := func(goals ...maze.Position) *State {
		s := NewState()
		observe(s, 0, 4)
		observe(s, 1, 4)
		s.History().Push(0.4)
		for _, g := range goals {
			s.Apply(GoalAnnounced{Cell: g})
		}
		return s
	}

	once := build(maze.Position{X: 3, Y: 3})
	twice := build(maze.Position{X: 1, Y: 1}, maze.Position{X: 3, Y: 3})

	for _, s := range []*State{once, twice} {
		_, ok := s.Current()
		assert.False(t, ok)
		_, ok = s.Last()
		assert.False(t, ok)
		_, ok = s.Start()
		assert.False(t, ok)
		assert.Equal(t, 0, s.Visited().Len())
		assert.Equal(t, 0, s.History().Len())
		assert.Equal(t, maze.Walls{}, s.Walls())
		goal, ok := s.Goal()
		require.True(t, ok)
		assert.Equal(t, maze.Position{X: 3, Y: 3}, goal)
	}
}

func TestStateRunID(t *testing.T) {
	s := NewState()
	first := s.RunID()
	observe(s, 0, 0)
	assert.Equal(t, first, s.RunID())

	s.Apply(GoalAnnounced{Cell: maze.Position{X: 1, Y: 1}})
	assert.NotEqual(t, first, s.RunID())
}

func TestVisitedGraphDepth(t *testing.T) {
	s := NewState()
	observe(s, 0, 4)
	observe(s, 0, 3)
	observe(s, 0, 2)

	assert.Equal(t, 0, s.Visited().Depth(maze.Position{X: 0, Y: 4}))
	assert.Equal(t, 2, s.Visited().Depth(maze.Position{X: 0, Y: 2}))
	assert.Equal(t, -1, s.Visited().Depth(maze.Position{X: 3, Y: 3}))
}

func TestHistoryGuard(t *testing.T) {
	var h History
	assert.True(t, h.Guard(3) > 1e300)

	h.Push(0.9)
	h.Push(0.1)
	h.Push(0.5)
	h.Push(0.4)

	assert.Equal(t, 0.4, h.Guard(1))
	assert.Equal(t, 0.1, h.Guard(3))
	assert.Equal(t, 0.1, h.Guard(10))
	assert.True(t, h.Guard(0) > 1e300)

	last, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, 0.4, last)
	assert.Equal(t, 0.5, h.Guard(1))

	h.Reset()
	_, ok = h.Pop()
	assert.False(t, ok)
}
