package hooks

// HookManager defines the interface for managing hooks.
type HookManager interface {
	// Execute runs the hook of the given type, if any.
	Execute(hookType HookType, ctx HookContext) (Result, error)

	AddHook(hook Hook) error
	RemoveHook(hookType HookType) error
	HasHook(hookType HookType) bool
}
