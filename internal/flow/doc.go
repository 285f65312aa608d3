// Package flow defines the runtime contracts shared by the engine and the
// modules: the Message that travels through a flow, the Processor interface
// a processor element must implement, optional lifecycle hooks, and the rule
// that turns a flow's final payload into a result count.
package flow
