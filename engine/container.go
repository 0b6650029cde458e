package engine

import "sync"

// Container reports the pixel size of the area hosting a surface
type Container interface {
	Size() (width, height int)
	// Observe registers fn for size changes, the returned func unregisters it
	Observe(fn func()) (disconnect func())
}

// StaticContainer has a fixed size and never notifies
type StaticContainer struct {
	Width, Height int
}

func (c StaticContainer) Size() (int, int) {
	return c.Width, c.Height
}

func (c StaticContainer) Observe(func()) func() {
	return func() {}
}

// ObservableContainer holds a settable size and notifies observers on change
// Observers run synchronously on the goroutine calling SetSize
type ObservableContainer struct {
	mu        sync.Mutex
	width     int
	height    int
	nextID    uint64
	observers map[uint64]func()
}

func NewObservableContainer(width, height int) *ObservableContainer {
	return &ObservableContainer{
		width:     width,
		height:    height,
		observers: make(map[uint64]func()),
	}
}

func (c *ObservableContainer) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *ObservableContainer) Observe(fn func()) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// SetSize updates the size, observers fire only when it differs
func (c *ObservableContainer) SetSize(width, height int) {
	c.mu.Lock()
	if c.width == width && c.height == height {
		c.mu.Unlock()
		return
	}
	c.width, c.height = width, height
	fns := make([]func(), 0, len(c.observers))
	for id := uint64(1); id <= c.nextID; id++ {
		if fn, ok := c.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Observers returns the number of registered observers
func (c *ObservableContainer) Observers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.observers)
}
