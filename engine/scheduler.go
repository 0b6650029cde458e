package engine

// FrameID identifies a pending frame request, zero is never issued
type FrameID uint64

// FrameFunc receives the tick timestamp in milliseconds
type FrameFunc func(timestamp float64)

// Scheduler delivers one-shot frame callbacks
// A callback requested while a tick runs fires on the following tick
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}
