// Package hooks runs user supplied Tengo scripts around launch preparation.
package hooks

import (
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Script variables a hook may append to.
const (
	VarExtraJVMArgs  = "extraJvmArgs"
	VarExtraGameArgs = "extraGameArgs"
)

// TengoExecutor handles the execution of Tengo scripts.
type TengoExecutor struct {
	scripts map[HookType]string
	mutex   sync.RWMutex
}

var _ HookManager = (*TengoExecutor)(nil)

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType]string),
	}
}

// Execute runs the script registered for hookType. A script fails the hook by
// defining err as an error or non-empty string; it can extend the launch by
// assigning to extraJvmArgs and extraGameArgs.
func (e *TengoExecutor) Execute(hookType HookType, ctx HookContext) (Result, error) {
	e.mutex.RLock()
	script, exists := e.scripts[hookType]
	e.mutex.RUnlock()
	if !exists {
		return Result{}, nil
	}

	scriptInstance := tengo.NewScript([]byte(script))
	scriptInstance.SetImports(stdlib.GetModuleMap("fmt", "os", "text", "times", "json"))

	vars := map[string]interface{}{
		"hookType":       string(hookType),
		"version":        ctx.Version,
		"root":           ctx.Root,
		"osTag":          ctx.OS,
		VarExtraJVMArgs:  []interface{}{},
		VarExtraGameArgs: []interface{}{},
	}
	for k, v := range ctx.Vars {
		vars[k] = v
	}
	for k, v := range vars {
		if err := scriptInstance.Add(k, v); err != nil {
			return Result{}, fmt.Errorf("failed to add variable '%s' to script: %w", k, err)
		}
	}

	compiled, err := scriptInstance.Run()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w: %w", hookType, ErrHookExecution, err)
	}

	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return Result{}, fmt.Errorf("%s: %w: %w", hookType, ErrHookScript, v)
		case string:
			if v != "" {
				return Result{}, fmt.Errorf("%s: %w: %s", hookType, ErrHookScript, v)
			}
		}
	}

	return Result{
		JVMArgs:  stringSlice(compiled.Get(VarExtraJVMArgs)),
		GameArgs: stringSlice(compiled.Get(VarExtraGameArgs)),
	}, nil
}

func stringSlice(v *tengo.Variable) []string {
	if v == nil {
		return nil
	}
	items := v.Array()
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(item))
	}
	return out
}

// AddHook registers hook, replacing any script of the same type.
func (e *TengoExecutor) AddHook(hook Hook) error {
	if hook.Type == "" {
		return ErrHookTypeEmpty
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hook.Type] = hook.Content
	return nil
}

// RemoveHook removes the script for the specified hook type.
func (e *TengoExecutor) RemoveHook(hookType HookType) error {
	if hookType == "" {
		return ErrHookTypeEmpty
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.scripts, hookType)
	return nil
}

// HasHook checks if a script exists for the specified hook type.
func (e *TengoExecutor) HasHook(hookType HookType) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}
