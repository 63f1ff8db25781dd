package scene_test

import (
	"testing"

	"github.com/remoteforge/scenebridge/internal/host/sim"
	"github.com/remoteforge/scenebridge/internal/scene"
	"github.com/stretchr/testify/assert"
)

func TestInfoFrom_ListsSeededObjects(t *testing.T) {
	graph := sim.NewSceneGraph("Scene")

	info := scene.InfoFrom(graph)

	assert.Equal(t, "Scene", info.Name)
	assert.Equal(t, len(info.Objects), info.ObjectCount)
	assert.NotEmpty(t, info.Objects)
}

func TestObjectInfoFrom_KnownObject(t *testing.T) {
	graph := sim.NewSceneGraph("Scene")
	info := scene.InfoFrom(graph)
	name := info.Objects[0].Name

	objInfo, ok := scene.ObjectInfoFrom(graph, name)

	assert.True(t, ok)
	assert.Equal(t, name, objInfo.Name)
	assert.Len(t, objInfo.Bounds.Min, 3)
	assert.Len(t, objInfo.Bounds.Max, 3)
}

func TestObjectInfoFrom_UnknownObject(t *testing.T) {
	graph := sim.NewSceneGraph("Scene")

	_, ok := scene.ObjectInfoFrom(graph, "DoesNotExist")

	assert.False(t, ok)
}
