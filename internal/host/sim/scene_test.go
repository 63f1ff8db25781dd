package sim_test

import (
	"testing"

	"github.com/remoteforge/scenebridge/internal/host"
	"github.com/remoteforge/scenebridge/internal/host/sim"
	"github.com/stretchr/testify/assert"
)

func TestSceneGraph_SeededWithCubeCameraLight(t *testing.T) {
	sg := sim.NewSceneGraph("Scene")

	objects := sg.Objects()
	names := make([]string, len(objects))
	for i, o := range objects {
		names[i] = o.Name
	}

	assert.ElementsMatch(t, []string{"Cube", "Camera", "Light"}, names)
}

func TestSceneGraph_Add(t *testing.T) {
	sg := sim.NewSceneGraph("Scene")

	sg.Add(host.Object{Name: "Sphere", Type: "MESH", Visible: true})

	obj, ok := sg.Object("Sphere")
	assert.True(t, ok)
	assert.Equal(t, "MESH", obj.Type)
}

func TestSceneGraph_ObjectNotFound(t *testing.T) {
	sg := sim.NewSceneGraph("Scene")

	_, ok := sg.Object("Nope")

	assert.False(t, ok)
}

func TestSceneGraph_AddPreservesInsertionOrder(t *testing.T) {
	sg := sim.NewSceneGraph("Scene")
	sg.Add(host.Object{Name: "Extra"})

	objects := sg.Objects()
	assert.Equal(t, "Extra", objects[len(objects)-1].Name)
}
