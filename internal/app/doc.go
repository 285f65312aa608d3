// Package app contains the scenario runner behind the CLI: it discovers
// configuration resources, plans the scenarios they declare, runs each in its
// own session with a bounded number of workers and reports the outcomes.
package app
