package workflow

// Context is the per-run variable store. Variables are flat strings keyed by
// name; a later write to the same key overwrites the earlier value. A Context
// belongs to exactly one run and is not safe for concurrent use.
type Context struct {
	vars map[string]string
}

// Reserved variables seeded at the start of every run
const (
	VarUserInput = "user_input"
	VarDebug     = "debug"
)

// NewContext returns an empty Context
func NewContext() *Context {
	return &Context{vars: make(map[string]string)}
}

// Set stores value under key
func (c *Context) Set(key, value string) {
	c.vars[key] = value
}

// Get returns the value stored under key
func (c *Context) Get(key string) (string, bool) {
	v, ok := c.vars[key]
	return v, ok
}

// Vars exposes the underlying map for template rendering. Callers must not
// modify it.
func (c *Context) Vars() map[string]string {
	return c.vars
}
