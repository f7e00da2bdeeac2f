package operation

import "sync"

// Callbacks collects the functions to run once a batch was committed.
type Callbacks struct {
	sync.RWMutex // protect callbacks
	callbacks    []func(error)
}

func (b *Callbacks) AddCallback(callback func(error)) {
	b.Lock()
	defer b.Unlock()

	b.callbacks = append(b.callbacks, callback)
}

// NotifyCallbacks runs all callbacks with the commit result, in the order
// they were added.
func (b *Callbacks) NotifyCallbacks(err error) {
	b.RLock()
	defer b.RUnlock()

	for _, callback := range b.callbacks {
		callback(err)
	}
}
