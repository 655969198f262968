package hooks

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	PrePrepare  HookType = "pre-prepare"
	PostPrepare HookType = "post-prepare"
)

// Types returns every supported hook type.
func Types() []HookType {
	return []HookType{PrePrepare, PostPrepare}
}

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
type HookContext struct {
	Version string
	Root    string
	OS      string
	Vars    map[string]interface{}
}

// Result carries what a script asked to add to the launch.
type Result struct {
	JVMArgs  []string
	GameArgs []string
}
