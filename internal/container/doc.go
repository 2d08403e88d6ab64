// Package container holds named applications and boots them onto the DOM
// nodes that reference them.
//
// An application is created once per name with Container.Application,
// collects services through Init and models through Model, and becomes
// live when Run (or BootDocument) attaches it to an element. Booting runs
// the Init method of every service the application collected, in order,
// then draws the model named by the element's data-model attribute.
package container
