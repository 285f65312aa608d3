// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading a named
// configuration resource and the Converter that binds argument values onto
// module structs.
//
// The `config.Model` is the single source of truth for the `engine`
// package. Concrete loaders, such as the HCL and YAML ones, live in
// separate packages.
package config
