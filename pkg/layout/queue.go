package layout

import "container/heap"

// frontierEntry is one growth candidate on the frontier. remaining and
// made track how many proposals the node has left and how many
// children it has produced so far.
type frontierEntry struct {
	nodeID    int
	priority  float64
	seq       int
	remaining int
	made      int
}

type frontierHeap []*frontierEntry

func (h frontierHeap) Len() int { return len(h) }

func (h frontierHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h frontierHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap) Push(x any) { *h = append(*h, x.(*frontierEntry)) }

func (h *frontierHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// frontier is a min-priority queue of growth candidates. Ties break on
// insertion order so growth stays deterministic.
type frontier struct {
	h   frontierHeap
	seq int
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(&f.h)
	return f
}

func (f *frontier) push(nodeID int, priority float64, remaining, made int) {
	heap.Push(&f.h, &frontierEntry{
		nodeID:    nodeID,
		priority:  priority,
		seq:       f.seq,
		remaining: remaining,
		made:      made,
	})
	f.seq++
}

func (f *frontier) pop() *frontierEntry {
	if f.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&f.h).(*frontierEntry)
}

func (f *frontier) empty() bool { return f.h.Len() == 0 }
