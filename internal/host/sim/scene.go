package sim

import (
	"sync"

	"github.com/remoteforge/scenebridge/internal/host"
)

// SceneGraph is an in-memory stand-in for the host's real scene graph,
// seeded with a handful of objects so get_scene_info / get_object_info
// have something concrete to report.
type SceneGraph struct {
	mu      sync.RWMutex
	name    string
	objects map[string]host.Object
	order   []string
}

// NewSceneGraph returns a scene graph seeded with a default cube,
// camera, and light — the same trio every fresh 3D scene starts with.
func NewSceneGraph(name string) *SceneGraph {
	sg := &SceneGraph{
		name:    name,
		objects: make(map[string]host.Object),
	}
	sg.seed()
	return sg
}

func (sg *SceneGraph) seed() {
	sg.addLocked(host.Object{
		Name: "Cube", Type: "MESH", Visible: true,
		Scale:         [3]float64{1, 1, 1},
		VertexCount:   8, FaceCount: 6, EdgeCount: 12, MaterialCount: 1,
		BoundsMin: [3]float64{-1, -1, -1}, BoundsMax: [3]float64{1, 1, 1},
	})
	sg.addLocked(host.Object{
		Name: "Camera", Type: "CAMERA", Visible: true,
		Location: [3]float64{7.36, -6.93, 4.96},
		Scale:    [3]float64{1, 1, 1},
	})
	sg.addLocked(host.Object{
		Name: "Light", Type: "LIGHT", Visible: true,
		Location: [3]float64{4.08, 1.01, 5.9},
		Scale:    [3]float64{1, 1, 1},
	})
}

func (sg *SceneGraph) addLocked(obj host.Object) {
	if _, exists := sg.objects[obj.Name]; !exists {
		sg.order = append(sg.order, obj.Name)
	}
	sg.objects[obj.Name] = obj
}

// Add inserts or replaces an object. Exported so tests and executed
// scripts (via a future facade) can mutate the simulated scene.
func (sg *SceneGraph) Add(obj host.Object) {
	sg.mu.Lock()
	defer sg.mu.Unlock()
	sg.addLocked(obj)
}

// Name implements host.SceneGraph.
func (sg *SceneGraph) Name() string {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	return sg.name
}

// Objects implements host.SceneGraph.
func (sg *SceneGraph) Objects() []host.Object {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	out := make([]host.Object, 0, len(sg.order))
	for _, name := range sg.order {
		out = append(out, sg.objects[name])
	}
	return out
}

// Object implements host.SceneGraph.
func (sg *SceneGraph) Object(name string) (host.Object, bool) {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	obj, ok := sg.objects[name]
	return obj, ok
}
