// Package host defines the narrow capability set the Command Broker
// consumes from the embedding 3D application (spec.md §1). The host
// application itself — its scene graph, operators, viewport, and
// embedded interpreter — is out of scope; this package only names the
// interfaces CB's handlers are written against, plus (in host/sim) a
// default in-process implementation for tests and standalone runs.
package host

import "context"

// Job is a callable scheduled onto the main loop. It returns the
// result object the dispatcher will wrap in a success response, or an
// error if the handler failed.
type Job func(ctx context.Context) (interface{}, error)

// Scheduler posts jobs to the application's single main-loop thread
// and ticks them at a fixed cadence (spec.md §4.3, §4.4 of the C1/C4
// pairing). Schedule returns a channel that receives exactly one
// JobResult once the job has run.
type Scheduler interface {
	// Schedule enqueues job for the next tick and returns a channel
	// that receives its result exactly once. The channel is never
	// closed without a send.
	Schedule(job Job) <-chan JobResult

	// Run starts draining the tick queue at the scheduler's cadence
	// until ctx is cancelled. Run blocks; callers run it in its own
	// goroutine.
	Run(ctx context.Context)
}

// JobResult is what a Scheduler delivers once a scheduled Job has run.
type JobResult struct {
	Value interface{}
	Err   error
}

// Object is one entry in the scene graph (spec.md §4.5 / §3).
type Object struct {
	Name     string
	Type     string
	Location [3]float64
	Rotation [3]float64
	Scale    [3]float64
	Visible  bool
	Parent   string // "" when the object has no parent

	VertexCount   int
	FaceCount     int
	EdgeCount     int
	MaterialCount int
	BoundsMin     [3]float64
	BoundsMax     [3]float64
}

// SceneGraph answers scene/object queries (C6).
type SceneGraph interface {
	Name() string
	Objects() []Object
	Object(name string) (Object, bool)
}

// RenderRequest describes a viewport capture (spec.md §4.5).
type RenderRequest struct {
	Filepath string
	MaxSize  int
	Format   string // "png" or "jpg"
}

// RenderResult is the capture outcome.
type RenderResult struct {
	Filepath string
	Width    int
	Height   int
	Format   string
}

// ErrHeadless is returned by ViewportRenderer.Render when no GUI
// viewport is available (spec.md §4.5, §7 "headless").
var ErrHeadless = errHeadless{}

type errHeadless struct{}

func (errHeadless) Error() string { return "viewport capture unavailable in background mode" }

// ViewportRenderer captures the active viewport to a file.
type ViewportRenderer interface {
	Render(req RenderRequest) (RenderResult, error)
}

// Interpreter runs source in the embedded scripting runtime, using a
// single namespace as both globals and locals across every call
// (spec.md §3, §4.4). The real host embeds CPython; host/sim's
// implementation embeds goja as a stand-in with the same persistence
// contract.
type Interpreter interface {
	// Execute runs code once, returning captured stdout/stderr. The
	// namespace mutation is visible to every subsequent Execute call
	// on the same Interpreter.
	Execute(ctx context.Context, code string) (stdout string, stderr string, err error)
}
