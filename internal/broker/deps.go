package broker

import (
	"github.com/remoteforge/scenebridge/internal/exec"
	"github.com/remoteforge/scenebridge/internal/host"
	"github.com/remoteforge/scenebridge/internal/store"
)

// Deps bundles everything a Handler might need. One Deps is shared by
// every command; main-loop handlers run with the guarantee that they
// are the only handler touching host/exec state at that instant
// (spec.md §4.3); inline handlers touch only store, which has its own
// mutex, and the RequestShutdown callback.
type Deps struct {
	Scene    host.SceneGraph
	Renderer host.ViewportRenderer
	Exec     *exec.Runtime
	Store    *store.Store

	// RequestShutdown signals the daemon to quit after the current
	// tick (spec.md §4.2's server_shutdown).
	RequestShutdown func()
}
