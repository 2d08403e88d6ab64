package registry

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two reference namespaces.
type Kind int

const (
	KindModule Kind = iota + 1
	KindService
)

// Sigils used by the textual form of a reference.
const (
	ModuleSigil  = "@"
	ServiceSigil = "#"
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Sigil returns the prefix used when the kind is written as a token.
func (k Kind) Sigil() string {
	switch k {
	case KindModule:
		return ModuleSigil
	case KindService:
		return ServiceSigil
	default:
		return ""
	}
}

// Ref names a registry entry within one of the two namespaces.
type Ref struct {
	Kind Kind
	Name string
}

// ModuleRef returns a reference to the module registered under name.
func ModuleRef(name string) Ref { return Ref{Kind: KindModule, Name: name} }

// ServiceRef returns a reference to the service registered under name.
func ServiceRef(name string) Ref { return Ref{Kind: KindService, Name: name} }

// IsZero reports whether the reference is incomplete.
func (r Ref) IsZero() bool { return r.Kind == 0 || r.Name == "" }

// String returns the token form, e.g. "@xhr" or "#router".
func (r Ref) String() string {
	return r.Kind.Sigil() + r.Name
}

// ParseRef parses a sigiled token into a Ref.
func ParseRef(token string) (Ref, error) {
	var ref Ref
	switch {
	case strings.HasPrefix(token, ModuleSigil):
		ref = ModuleRef(strings.TrimPrefix(token, ModuleSigil))
	case strings.HasPrefix(token, ServiceSigil):
		ref = ServiceRef(strings.TrimPrefix(token, ServiceSigil))
	default:
		return Ref{}, fmt.Errorf("%w %q", ErrInvalidReference, token)
	}
	if ref.Name == "" {
		return Ref{}, fmt.Errorf("%w %q: empty name", ErrInvalidReference, token)
	}
	return ref, nil
}

// MustRefs parses every token with ParseRef and panics on the first invalid
// one. It is meant for static dependency declarations in module code.
func MustRefs(tokens ...string) []Ref {
	refs := make([]Ref, 0, len(tokens))
	for _, token := range tokens {
		ref, err := ParseRef(token)
		if err != nil {
			panic(err)
		}
		refs = append(refs, ref)
	}
	return refs
}
