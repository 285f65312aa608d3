// Package flowtest adapts scenario sessions to Go tests. A Harness fails the
// test on the first scenario error, and RunScenarios drives a table of
// scenarios described purely as data.
package flowtest
