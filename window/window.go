// Package window keeps a bounded FIFO of recent samples and exposes their
// arithmetic mean. It is used to smooth noisy temperature readings.
package window

// Window holds up to Cap() most recent samples, oldest evicted first.
// It is not safe for concurrent use.
type Window struct {
	buf  []float64
	head int // index of the oldest sample
	size int
	sum  float64
}

// New returns an empty window of capacity n. A capacity below 1 is treated as 1.
func New(n int) *Window {
	if n < 1 {
		n = 1
	}
	return &Window{buf: make([]float64, n)}
}

// Push appends v, dropping the oldest sample when the window is full.
func (w *Window) Push(v float64) {
	if w.size == len(w.buf) {
		w.sum -= w.buf[w.head]
		w.buf[w.head] = v
		w.head = (w.head + 1) % len(w.buf)
	} else {
		w.buf[(w.head+w.size)%len(w.buf)] = v
		w.size++
	}
	w.sum += v

	// Re-sum on wrap so rounding error from the running sum does not drift.
	if w.head == 0 && w.size == len(w.buf) {
		w.sum = 0
		for _, x := range w.buf {
			w.sum += x
		}
	}
}

// Average returns the mean of the held samples. ok is false when the window is empty.
func (w *Window) Average() (avg float64, ok bool) {
	if w.size == 0 {
		return 0, false
	}
	return w.sum / float64(w.size), true
}

func (w *Window) Len() int { return w.size }
func (w *Window) Cap() int { return len(w.buf) }

// Values returns a copy of the held samples, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, w.size)
	for i := range out {
		out[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	return out
}

// Reset empties the window without changing its capacity.
func (w *Window) Reset() {
	w.head, w.size, w.sum = 0, 0, 0
}
