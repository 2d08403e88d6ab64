// Package config defines the format-agnostic manifest model for the
// application, along with the Loader interface that fills it.
//
// The `config.Model` is the single source of truth for wiring applications,
// models, routers and navigation feeds. Concrete loaders, such as the HCL
// one, are provided in separate packages.
package config
