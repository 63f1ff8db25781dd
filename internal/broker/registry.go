package broker

import (
	"context"
	"encoding/json"

	"github.com/remoteforge/scenebridge/internal/brokererr"
)

// Handler runs one command. params is the raw "params" object from
// the request frame (nil when absent); deps gives access to every
// host capability and store a handler might need.
type Handler func(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError)

// Descriptor is C3's internal record: {name, requires_main_loop, handler}.
type Descriptor struct {
	Name             string
	RequiresMainLoop bool
	Handler          Handler
}

// Registry maps a command's type string to its descriptor. New
// commands are added by registering one more Descriptor; no other
// component needs to change (spec.md §4.2).
type Registry struct {
	commands map[string]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Descriptor)}
}

// Register adds or replaces a command descriptor.
func (r *Registry) Register(d Descriptor) {
	r.commands[d.Name] = d
}

// Lookup returns the descriptor for name, if registered.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.commands[name]
	return d, ok
}

// NewDefaultRegistry returns a Registry with every built-in command
// from spec.md §4.2 registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Descriptor{Name: "get_scene_info", RequiresMainLoop: true, Handler: handleGetSceneInfo})
	r.Register(Descriptor{Name: "get_object_info", RequiresMainLoop: true, Handler: handleGetObjectInfo})
	r.Register(Descriptor{Name: "execute_code", RequiresMainLoop: true, Handler: handleExecuteCode})
	r.Register(Descriptor{Name: "get_viewport_screenshot", RequiresMainLoop: true, Handler: handleGetViewportScreenshot})
	r.Register(Descriptor{Name: "put_persist_data", RequiresMainLoop: false, Handler: handlePutPersistData})
	r.Register(Descriptor{Name: "get_persist_data", RequiresMainLoop: false, Handler: handleGetPersistData})
	r.Register(Descriptor{Name: "remove_persist_data", RequiresMainLoop: false, Handler: handleRemovePersistData})
	r.Register(Descriptor{Name: "server_shutdown", RequiresMainLoop: false, Handler: handleServerShutdown})
	return r
}
