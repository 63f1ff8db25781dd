package store_test

import (
	"testing"

	"github.com/remoteforge/scenebridge/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestStore_PutGet(t *testing.T) {
	s := store.New()
	s.Put("mode", "edit")

	value, found := s.Get("mode", nil)
	assert.True(t, found)
	assert.Equal(t, "edit", value)
}

func TestStore_GetMissingReturnsDefault(t *testing.T) {
	s := store.New()
	value, found := s.Get("missing", "fallback")
	assert.False(t, found)
	assert.Equal(t, "fallback", value)
}

func TestStore_Remove(t *testing.T) {
	s := store.New()
	s.Put("key", 1)
	assert.True(t, s.Remove("key"))
	assert.False(t, s.Remove("key"))
}

func TestStore_Keys(t *testing.T) {
	s := store.New()
	s.Put("a", 1)
	s.Put("b", 2)
	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
}

func TestStore_PutJSON_RoundTripsThroughJSON(t *testing.T) {
	s := store.New()
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	err := s.PutJSON("origin", point{X: 1, Y: 2})
	assert.NoError(t, err)

	value, found := s.Get("origin", nil)
	assert.True(t, found)
	asMap, ok := value.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, float64(1), asMap["x"])
}

func TestFacade_DelegatesToStore(t *testing.T) {
	s := store.New()
	f := store.NewFacade(s)

	f.Put("k", "v")
	assert.Equal(t, "v", f.Get("k", nil))
	assert.ElementsMatch(t, []string{"k"}, f.ListKeys())
	assert.True(t, f.Remove("k"))
}
