package store

// Facade is the small surface injected into the execution namespace so
// scripts running in the embedded interpreter can reach the same
// persistence store the put_persist_data/get_persist_data/
// remove_persist_data commands use (spec.md §4.7's "small facade
// module"). Methods are named for direct use from goja (exported
// methods on a bound struct are callable as script-side functions).
type Facade struct {
	store *Store
}

// NewFacade wraps store for injection into an interpreter namespace.
func NewFacade(store *Store) *Facade {
	return &Facade{store: store}
}

// Put stores value under key.
func (f *Facade) Put(key string, value interface{}) {
	f.store.Put(key, value)
}

// Get returns the stored value for key, or def when absent.
func (f *Facade) Get(key string, def interface{}) interface{} {
	v, _ := f.store.Get(key, def)
	return v
}

// Remove deletes key and reports whether it was present.
func (f *Facade) Remove(key string) bool {
	return f.store.Remove(key)
}

// ListKeys returns every stored key.
func (f *Facade) ListKeys() []string {
	return f.store.Keys()
}
