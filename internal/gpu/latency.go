package gpu

import "time"

// MaxFrameLatency is the number of frames allowed in flight.
const MaxFrameLatency = 1

// LatencyWaiter blocks until the queue has retired enough submissions for a
// new frame to be recorded without queueing more than MaxFrameLatency frames.
type LatencyWaiter struct {
	device *Device
	poll   time.Duration
}

// Wait blocks until a frame slot is free or timeout elapses. It reports
// whether the slot became free.
func (w *LatencyWaiter) Wait(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if w.ready() {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(w.poll)
	}
}

// ready reports whether at most MaxFrameLatency-1 submissions are pending.
func (w *LatencyWaiter) ready() bool {
	d := w.device
	if d.queue == nil || d.lastSubmit == 0 {
		return true
	}
	return d.queue.PollCompleted()+MaxFrameLatency > d.lastSubmit
}
