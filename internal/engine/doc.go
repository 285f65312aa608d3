// Package engine turns a loaded config.Model into a runnable Context and
// executes its flows.
//
// Build is the only place that consults the namespace handlers: each
// `config` block resolves its namespace's "config" extension once, and each
// processor element resolves its own extension. The resulting instances
// live as long as the Context, so every processor bound to the same config
// block shares one module instance. Names the configuration never
// references are never instantiated.
package engine
