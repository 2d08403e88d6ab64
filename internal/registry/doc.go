// Package registry provides the central "glue" for the module system: a
// store of reusable module entries and per-application service entries, and
// the dependency resolver that turns a declarative list of references plus a
// factory into a constructed value.
//
// References come in two kinds. Module references (written "@name") resolve
// to a shared value or to a fresh instance from a factory. Service references
// (written "#name") are constructed for a specific owner, receive that owner
// as metadata, and are queued on it so they can be initialized when the
// owner boots. Service factories may depend on modules and on other
// services; the dispatcher routes each reference to the right provider.
//
// During startup the registry is populated by Module implementations and
// then validated, so that unknown references and dependency cycles surface
// before anything is resolved.
package registry
