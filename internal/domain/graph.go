package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound = errors.New("object not found")
	ErrSelfLink     = errors.New("object cannot be linked to itself")
	ErrCycle        = errors.New("edge would create a cycle")
)

// GraphStore is the row-level storage the graph algorithm runs against.
// Implementations are expected to run every call of one Graph operation
// inside a single transaction.
type GraphStore interface {
	// Node returns nil, nil when the id does not exist
	Node(ctx context.Context, id int64) (*ObjectNode, error)
	ChildIDs(ctx context.Context, id int64) ([]int64, error)
	ParentIDs(ctx context.Context, id int64) ([]int64, error)
	HasEdge(ctx context.Context, parent, child int64) (bool, error)
	InsertEdge(ctx context.Context, parent, child int64) error
	DeleteEdge(ctx context.Context, parent, child int64) error
	AdjustCounts(ctx context.Context, id int64, childDelta, refDelta int) error
	DeleteNode(ctx context.Context, id int64) error
}

// Graph maintains edge counters and reclaims nodes that lose their last
// child or their last referrer.
type Graph struct {
	store GraphStore
}

// NewGraph creates a graph over a store
func NewGraph(store GraphStore) *Graph {
	return &Graph{store: store}
}

// Link adds the edge parent -> child. Linking an existing edge is a no-op.
func (g *Graph) Link(ctx context.Context, parent, child int64) error {
	if parent == child {
		return ErrSelfLink
	}
	for _, id := range []int64{parent, child} {
		n, err := g.store.Node(ctx, id)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
		}
	}

	exists, err := g.store.HasEdge(ctx, parent, child)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	cyclic, err := g.reachable(ctx, child, parent)
	if err != nil {
		return err
	}
	if cyclic {
		return fmt.Errorf("%w: %d -> %d", ErrCycle, parent, child)
	}

	if err := g.store.InsertEdge(ctx, parent, child); err != nil {
		return err
	}
	if err := g.store.AdjustCounts(ctx, parent, 1, 0); err != nil {
		return err
	}
	return g.store.AdjustCounts(ctx, child, 0, 1)
}

// Unlink removes the edge parent -> child and returns the ids of every node
// reclaimed as a consequence. Unlinking a missing edge is a no-op.
func (g *Graph) Unlink(ctx context.Context, parent, child int64) ([]int64, error) {
	exists, err := g.store.HasEdge(ctx, parent, child)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	if err := g.removeEdge(ctx, parent, child); err != nil {
		return nil, err
	}

	var queue []int64
	pn, err := g.store.Node(ctx, parent)
	if err != nil {
		return nil, err
	}
	if pn != nil && pn.Empty() {
		queue = append(queue, parent)
	}
	cn, err := g.store.Node(ctx, child)
	if err != nil {
		return nil, err
	}
	if cn != nil && cn.Orphaned() {
		queue = append(queue, child)
	}
	return g.collect(ctx, queue)
}

// Delete removes a node unconditionally, then reclaims every node left
// without children or referrers. The returned ids start with id itself.
func (g *Graph) Delete(ctx context.Context, id int64) ([]int64, error) {
	n, err := g.store.Node(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return g.collect(ctx, []int64{id})
}

// collect drains the work queue until no more nodes qualify. The visited
// set keeps it finite when the graph contains a cycle.
func (g *Graph) collect(ctx context.Context, queue []int64) ([]int64, error) {
	var removed []int64
	visited := make(map[int64]bool)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		children, err := g.store.ChildIDs(ctx, id)
		if err != nil {
			return removed, err
		}
		for _, c := range children {
			if err := g.removeEdge(ctx, id, c); err != nil {
				return removed, err
			}
			if visited[c] {
				continue
			}
			cn, err := g.store.Node(ctx, c)
			if err != nil {
				return removed, err
			}
			if cn != nil && cn.Orphaned() {
				queue = append(queue, c)
			}
		}

		parents, err := g.store.ParentIDs(ctx, id)
		if err != nil {
			return removed, err
		}
		for _, p := range parents {
			if err := g.removeEdge(ctx, p, id); err != nil {
				return removed, err
			}
			if visited[p] {
				continue
			}
			pn, err := g.store.Node(ctx, p)
			if err != nil {
				return removed, err
			}
			if pn != nil && pn.Empty() {
				queue = append(queue, p)
			}
		}

		if err := g.store.DeleteNode(ctx, id); err != nil {
			return removed, err
		}
		removed = append(removed, id)
	}

	return removed, nil
}

func (g *Graph) removeEdge(ctx context.Context, parent, child int64) error {
	if err := g.store.DeleteEdge(ctx, parent, child); err != nil {
		return err
	}
	if err := g.store.AdjustCounts(ctx, parent, -1, 0); err != nil {
		return err
	}
	return g.store.AdjustCounts(ctx, child, 0, -1)
}

// reachable reports whether target can be reached from start by following
// child edges.
func (g *Graph) reachable(ctx context.Context, start, target int64) (bool, error) {
	seen := map[int64]bool{start: true}
	stack := []int64{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true, nil
		}
		children, err := g.store.ChildIDs(ctx, id)
		if err != nil {
			return false, err
		}
		for _, c := range children {
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	return false, nil
}
