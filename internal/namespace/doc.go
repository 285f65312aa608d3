// Package namespace defines the namespace handler contract: a thin adapter,
// one per configuration namespace, whose Init registers that namespace's
// extension names into its own registry.
//
// Handlers are independent types satisfying Handler; Base is an optional
// helper they can embed to own a registry. A Set gathers the handlers known
// to one loaded configuration and guarantees each is initialized exactly once.
package namespace
