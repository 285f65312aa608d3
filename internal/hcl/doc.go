// Package hcl provides the HCL implementation of config.Loader. It resolves
// a resource name against a list of search directories, parses the file,
// evaluates every attribute and translates the blocks into the
// format-agnostic config.Model.
package hcl
