// Package registry provides the central "glue" between configuration element
// names and the Go code that implements them.
//
// A Registry maps an extension name (e.g. "config", "set-manifest") to a
// Factory producing a fresh Module instance. Each namespace handler owns
// exactly one Registry for the lifetime of its initialization, so the
// duplicate-name rule is enforced per namespace and never across
// independently running scenarios.
//
// Resolve never caches: every call invokes the factory again. Callers that
// need a shared instance (the engine does, for `config` blocks) keep the
// resolved value themselves.
package registry
