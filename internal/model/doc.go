// Package model defines the JSON model description an application renders:
// a list of panels, each describing one request form.
package model
