package hearttree

// syntheticPointerEvent is a queued pointer event in layout coordinates.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a pointer press at (x, y) in layout coordinates. The
// event is consumed on the next Update.
func (bs *ButtonSet) InjectPress(x, y float64) {
	bs.injectQueue = append(bs.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a pointer release at (x, y).
func (bs *ButtonSet) InjectRelease(x, y float64) {
	bs.injectQueue = append(bs.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two updates.
func (bs *ButtonSet) InjectClick(x, y float64) {
	bs.InjectPress(x, y)
	bs.InjectRelease(x, y)
}

// Pending returns the number of injected events not yet consumed.
func (bs *ButtonSet) Pending() int {
	return len(bs.injectQueue)
}

// processInjected pops one event and feeds it through the mouse pointer.
// Returns true if an event was consumed, in which case real input is skipped
// for this update.
func (bs *ButtonSet) processInjected() bool {
	if len(bs.injectQueue) == 0 {
		return false
	}
	evt := bs.injectQueue[0]
	copy(bs.injectQueue, bs.injectQueue[1:])
	bs.injectQueue = bs.injectQueue[:len(bs.injectQueue)-1]

	if evt.pressed {
		bs.press(0, evt.x, evt.y)
	} else {
		bs.release(0, evt.x, evt.y)
	}
	return true
}
