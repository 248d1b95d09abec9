package core

// observerList is an ordered set of callbacks with unsubscribe support.
// It is not safe for concurrent use; owners guard it with their own lock.
type observerList struct {
	nextID int
	subs   []observer
}

type observer struct {
	id int
	fn func()
}

// subscribe registers fn and returns its id.
func (l *observerList) subscribe(fn func()) int {
	l.nextID++
	l.subs = append(l.subs, observer{id: l.nextID, fn: fn})
	return l.nextID
}

// unsubscribe removes the callback with the given id. Unknown ids are ignored.
func (l *observerList) unsubscribe(id int) {
	for i, o := range l.subs {
		if o.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// snapshot returns the callbacks in subscription order.
func (l *observerList) snapshot() []func() {
	fns := make([]func(), len(l.subs))
	for i, o := range l.subs {
		fns[i] = o.fn
	}
	return fns
}
