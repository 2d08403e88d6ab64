// Package app wires the runtime together: it registers the modules, loads
// the manifest, declares its applications on a container, boots an HTML
// page and renders the result.
package app
