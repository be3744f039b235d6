package controller

// Event is dispatched by controllers and bubbles to their owners.
type Event struct {
	Name   string
	Detail map[string]any
	// Emitter is the controller that dispatched the event.
	Emitter Controller

	prevented bool
	stopped   bool
}

// PreventDefault marks the event as canceled
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a listener canceled the event
func (e *Event) DefaultPrevented() bool { return e.prevented }

// StopPropagation keeps the event from bubbling further
func (e *Event) StopPropagation() { e.stopped = true }

// Listener is a registered event handler.
type Listener struct {
	fn func(*Event)
}

// AddEventListener registers fn for events named name. The returned
// listener removes it again.
func (c *BaseController) AddEventListener(name string, fn func(*Event)) *Listener {
	l := &Listener{fn: fn}
	c.listeners[name] = append(c.listeners[name], l)
	return l
}

// RemoveEventListener unregisters l.
func (c *BaseController) RemoveEventListener(name string, l *Listener) {
	list := c.listeners[name]
	for i, existing := range list {
		if existing == l {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(c.listeners, name)
	} else {
		c.listeners[name] = list
	}
}

// Listeners returns the number of listeners registered for name.
func (c *BaseController) Listeners(name string) int {
	return len(c.listeners[name])
}

// DispatchEvent delivers an event to the listeners of the controller and
// then of its owners. It returns false when a listener prevented the
// default.
func (c *BaseController) DispatchEvent(name string, detail map[string]any) bool {
	emitter, _ := c.Self().(Controller)
	ev := &Event{Name: name, Detail: detail, Emitter: emitter}
	for target := emitter; target != nil && !ev.stopped; target = target.Base().Owner() {
		target.Base().deliver(ev)
	}
	return !ev.prevented
}

func (c *BaseController) deliver(ev *Event) {
	for _, l := range append([]*Listener{}, c.listeners[ev.Name]...) {
		l.fn(ev)
	}
}
