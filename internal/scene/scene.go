// Package scene holds the JSON response shapes for get_scene_info and
// get_object_info (C6), and the conversion from a host.Object into
// them. Grounded on the teacher's internal/domain/registry/types.go
// nested-struct JSON tagging style (explicit omitempty on every
// optional field).
package scene

import "github.com/remoteforge/scenebridge/internal/host"

// ObjectSummary is one entry in get_scene_info's objects array.
type ObjectSummary struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Location []float64 `json:"location"`
	Rotation []float64 `json:"rotation"`
	Scale    []float64 `json:"scale"`
	Visible  bool      `json:"visible"`
	Parent   string    `json:"parent,omitempty"`
}

// Info is the get_scene_info result (spec.md §4.5).
type Info struct {
	Name        string          `json:"name"`
	ObjectCount int             `json:"object_count"`
	Objects     []ObjectSummary `json:"objects"`
}

// Bounds is an object's axis-aligned bounding box.
type Bounds struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// ObjectInfo is the get_object_info result: the summary fields plus
// mesh-specific detail (spec.md §4.5).
type ObjectInfo struct {
	ObjectSummary
	VertexCount   int    `json:"vertex_count"`
	FaceCount     int    `json:"face_count"`
	EdgeCount     int    `json:"edge_count"`
	MaterialCount int    `json:"material_count"`
	Bounds        Bounds `json:"bounds"`
}

func summaryOf(obj host.Object) ObjectSummary {
	return ObjectSummary{
		Name:     obj.Name,
		Type:     obj.Type,
		Location: obj.Location[:],
		Rotation: obj.Rotation[:],
		Scale:    obj.Scale[:],
		Visible:  obj.Visible,
		Parent:   obj.Parent,
	}
}

// InfoFrom builds a get_scene_info result from a live scene graph.
func InfoFrom(graph host.SceneGraph) Info {
	objects := graph.Objects()
	summaries := make([]ObjectSummary, 0, len(objects))
	for _, obj := range objects {
		summaries = append(summaries, summaryOf(obj))
	}
	return Info{
		Name:        graph.Name(),
		ObjectCount: len(summaries),
		Objects:     summaries,
	}
}

// ObjectInfoFrom builds a get_object_info result for one named object.
func ObjectInfoFrom(graph host.SceneGraph, name string) (ObjectInfo, bool) {
	obj, ok := graph.Object(name)
	if !ok {
		return ObjectInfo{}, false
	}
	return ObjectInfo{
		ObjectSummary: summaryOf(obj),
		VertexCount:   obj.VertexCount,
		FaceCount:     obj.FaceCount,
		EdgeCount:     obj.EdgeCount,
		MaterialCount: obj.MaterialCount,
		Bounds:        Bounds{Min: obj.BoundsMin[:], Max: obj.BoundsMax[:]},
	}, true
}
