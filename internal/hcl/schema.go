package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all top-level blocks from any file.
type fileRoot struct {
	Applications []*ApplicationBlock `hcl:"application,block"`
	Remain       hcl.Body            `hcl:",remain"`
}

// ApplicationBlock is the HCL schema of an `application` block.
type ApplicationBlock struct {
	Name       string           `hcl:"name,label"`
	Routable   bool             `hcl:"routable,optional"`
	Config     hcl.Expression   `hcl:"config,optional"`
	Models     []*ModelBlock    `hcl:"model,block"`
	Router     *RouterBlock     `hcl:"router,block"`
	Navigation *NavigationBlock `hcl:"navigation,block"`
}

// ModelBlock is the HCL schema of a `model` block.
type ModelBlock struct {
	Name   string `hcl:"name,label"`
	Source string `hcl:"source"`
}

// RouterBlock is the HCL schema of a `router` block.
type RouterBlock struct {
	URL       string        `hcl:"url,optional"`
	FetchMode string        `hcl:"fetch_mode,optional"`
	HTML5     bool          `hcl:"html5,optional"`
	Default   *string       `hcl:"default,optional"`
	Routes    []*RouteBlock `hcl:"route,block"`
}

// RouteBlock is the HCL schema of a `route` block.
type RouteBlock struct {
	Hash   string `hcl:"hash,label"`
	Target string `hcl:"target"`
}

// NavigationBlock is the HCL schema of a `navigation` block.
type NavigationBlock struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}
