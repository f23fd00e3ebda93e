package git

// walkQueueItem is a commit waiting in the walker frontier. seq records
// insertion order and breaks ties between equal committer times so that
// children pushed before their parents are emitted first.
type walkQueueItem struct {
	commit *Commit
	seq    uint64
}

// walkMaxHeap orders commits newest committer time first.
type walkMaxHeap []walkQueueItem

func (h walkMaxHeap) Len() int { return len(h) }

func (h walkMaxHeap) Less(i, j int) bool {
	ti, tj := h[i].commit.Committer.When, h[j].commit.Committer.When
	if ti.Equal(tj) {
		return h[i].seq < h[j].seq
	}
	return ti.After(tj)
}

func (h walkMaxHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *walkMaxHeap) Push(x any) {
	*h = append(*h, x.(walkQueueItem))
}

func (h *walkMaxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = walkQueueItem{}
	*h = old[:n-1]
	return item
}
