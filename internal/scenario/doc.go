// Package scenario runs one integration scenario: it loads a named
// configuration resource, executes a named flow and checks how many items
// the flow produced.
//
// A Session moves through Unconfigured, ConfigLoaded, FlowRan and then
// Passed or Failed. Failed is terminal.
package scenario
