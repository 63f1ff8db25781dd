package broker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/remoteforge/scenebridge/internal/brokererr"
	"github.com/remoteforge/scenebridge/internal/exec"
	"github.com/remoteforge/scenebridge/internal/host"
	"github.com/remoteforge/scenebridge/internal/scene"
)

func unmarshalParams(params json.RawMessage, dst interface{}) *brokererr.BrokerError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return brokererr.New(brokererr.BadParams, "invalid params: %v", err)
	}
	return nil
}

func handleGetSceneInfo(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError) {
	return scene.InfoFrom(deps.Scene), nil
}

type getObjectInfoParams struct {
	ObjectName string `json:"object_name"`
}

func handleGetObjectInfo(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError) {
	var p getObjectInfoParams
	if berr := unmarshalParams(params, &p); berr != nil {
		return nil, berr
	}
	if p.ObjectName == "" {
		return nil, brokererr.New(brokererr.BadParams, "object_name is required")
	}
	info, ok := scene.ObjectInfoFrom(deps.Scene, p.ObjectName)
	if !ok {
		return nil, brokererr.New(brokererr.HostError, "no object named %q", p.ObjectName)
	}
	return info, nil
}

type executeCodeParams struct {
	Code           string `json:"code"`
	CodeIsBase64   bool   `json:"code_is_base64"`
	ReturnAsBase64 bool   `json:"return_as_base64"`
}

func handleExecuteCode(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError) {
	var p executeCodeParams
	if berr := unmarshalParams(params, &p); berr != nil {
		return nil, berr
	}
	result, berr := deps.Exec.Execute(ctx, exec.Params{
		Code:           p.Code,
		CodeIsBase64:   p.CodeIsBase64,
		ReturnAsBase64: p.ReturnAsBase64,
	})
	if berr != nil {
		return nil, berr
	}
	return result, nil
}

type viewportScreenshotParams struct {
	Filepath string `json:"filepath"`
	MaxSize  int    `json:"max_size"`
	Format   string `json:"format"`
}

func handleGetViewportScreenshot(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError) {
	var p viewportScreenshotParams
	if berr := unmarshalParams(params, &p); berr != nil {
		return nil, berr
	}
	result, err := deps.Renderer.Render(host.RenderRequest{
		Filepath: p.Filepath,
		MaxSize:  p.MaxSize,
		Format:   p.Format,
	})
	if err != nil {
		if errors.Is(err, host.ErrHeadless) {
			return nil, brokererr.New(brokererr.Headless, "Viewport capture unavailable in background mode")
		}
		return nil, brokererr.New(brokererr.HostError, "%v", err)
	}
	return result, nil
}

type putPersistDataParams struct {
	Key  string      `json:"key"`
	Data interface{} `json:"data"`
}

func handlePutPersistData(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError) {
	var p putPersistDataParams
	if berr := unmarshalParams(params, &p); berr != nil {
		return nil, berr
	}
	if p.Key == "" {
		return nil, brokererr.New(brokererr.BadParams, "key is required")
	}
	if err := deps.Store.PutJSON(p.Key, p.Data); err != nil {
		return nil, brokererr.New(brokererr.BadParams, "data is not JSON-serializable: %v", err)
	}
	return map[string]interface{}{"stored": true}, nil
}

type getPersistDataParams struct {
	Key     string      `json:"key"`
	Default interface{} `json:"default"`
}

func handleGetPersistData(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError) {
	var p getPersistDataParams
	if berr := unmarshalParams(params, &p); berr != nil {
		return nil, berr
	}
	if p.Key == "" {
		return nil, brokererr.New(brokererr.BadParams, "key is required")
	}
	value, found := deps.Store.Get(p.Key, p.Default)
	return map[string]interface{}{"found": found, "data": value}, nil
}

type removePersistDataParams struct {
	Key string `json:"key"`
}

func handleRemovePersistData(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError) {
	var p removePersistDataParams
	if berr := unmarshalParams(params, &p); berr != nil {
		return nil, berr
	}
	if p.Key == "" {
		return nil, brokererr.New(brokererr.BadParams, "key is required")
	}
	removed := deps.Store.Remove(p.Key)
	return map[string]interface{}{"removed": removed}, nil
}

func handleServerShutdown(ctx context.Context, params json.RawMessage, deps *Deps) (interface{}, *brokererr.BrokerError) {
	if deps.RequestShutdown != nil {
		deps.RequestShutdown()
	}
	return map[string]interface{}{"shutting_down": true}, nil
}
