package pipeline

import "sync"

// planePool is a thread-safe pool of sample planes.
//
// Planes are grouped by length, so repeated evaluation over arrays of one
// shape reuses the node buffers of earlier calls.
type planePool struct {
	mu      sync.Mutex
	buckets map[int][][]float32
	maxSize int // max planes per bucket
}

// newPlanePool creates a pool keeping at most maxPerBucket planes of each
// length. A maxPerBucket of 0 means unlimited.
func newPlanePool(maxPerBucket int) *planePool {
	return &planePool{
		buckets: make(map[int][][]float32),
		maxSize: maxPerBucket,
	}
}

// get returns a zeroed plane of length n.
func (p *planePool) get(n int) []float32 {
	p.mu.Lock()
	bucket := p.buckets[n]
	if len(bucket) > 0 {
		plane := bucket[len(bucket)-1]
		p.buckets[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		clear(plane)
		return plane
	}
	p.mu.Unlock()

	return make([]float32, n)
}

// put hands plane back. Nil planes and planes beyond the bucket limit are
// dropped.
func (p *planePool) put(plane []float32) {
	if plane == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(plane)
	bucket := p.buckets[n]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[n] = append(bucket, plane)
}

// planes serves every Evaluate call.
var planes = newPlanePool(64)
