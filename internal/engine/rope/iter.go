package rope

// chunkIterSpan is a pending byte window of a node in the traversal.
type chunkIterSpan struct {
	node *Rope
	off  int // window start within node
	n    int // window length
}

// ChunkIterator iterates over the contiguous pieces of a rope in order
// without flattening it. Cached buffers of inner nodes are used when present.
type ChunkIterator struct {
	stack      []chunkIterSpan
	chunk      []byte
	chunkStart int
	next       int
}

// Chunks returns an iterator over the contiguous pieces of r.
func (r *Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{stack: make([]chunkIterSpan, 0, 16)}
	if r.size > 0 {
		it.stack = append(it.stack, chunkIterSpan{node: r, off: 0, n: r.size})
	}
	return it
}

// Next advances to the next chunk.
// Returns true if there is a chunk, false if iteration is complete.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		node, off, n := top.node, top.off, top.n

		if b, ok := node.cachedBytes(); ok {
			it.emit(b[off : off+n])
			return true
		}

		switch node.kind {
		case KindInt:
			it.emit(node.Bytes()[off : off+n])
			return true

		case KindSubstring:
			it.push(node.left, node.offset+off, n)

		case KindConcat:
			ls := node.left.size
			switch {
			case off+n <= ls:
				it.push(node.left, off, n)
			case off >= ls:
				it.push(node.right, off-ls, n)
			default:
				// right part first so the left part is popped next
				it.push(node.right, 0, off+n-ls)
				it.push(node.left, off, ls-off)
			}

		case KindRepeat:
			p := node.left.size
			start := off % p
			first := min(n, p-start)
			if first < n {
				it.push(node, off+first, n-first)
			}
			it.push(node.left, start, first)
		}
	}
	it.chunk = nil
	return false
}

func (it *ChunkIterator) push(node *Rope, off, n int) {
	if n > 0 {
		it.stack = append(it.stack, chunkIterSpan{node: node, off: off, n: n})
	}
}

func (it *ChunkIterator) emit(b []byte) {
	it.chunk = b[:len(b):len(b)]
	it.chunkStart = it.next
	it.next += len(b)
}

// Chunk returns the current chunk. It must not be modified.
func (it *ChunkIterator) Chunk() []byte {
	return it.chunk
}

// Offset returns the byte offset of the start of the current chunk.
func (it *ChunkIterator) Offset() int {
	return it.chunkStart
}
