package records

// ChangeListener is notified after a recording is added.
//
// OnNewEntryAdded carries no details; call Count or At to see what changed.
type ChangeListener interface {
	OnNewEntryAdded()
}

// ListenerFunc adapts a plain function to ChangeListener.
type ListenerFunc func()

// OnNewEntryAdded calls f.
func (f ListenerFunc) OnNewEntryAdded() {
	f()
}
