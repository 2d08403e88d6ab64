// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, and translating
// `application` blocks into the format-agnostic config model, including
// reading the model files they reference.
package hcl
