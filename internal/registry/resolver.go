package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/schematic/internal/ctxlog"
)

// Provider looks up a single reference on behalf of the resolver.
type Provider func(ctx context.Context, ref Ref, extras Extras) (any, error)

// Resolve looks up every reference in deps through provider, in order, and
// invokes deps.Factory with the results as positional arguments.
func Resolve(ctx context.Context, deps Deps, provider Provider, extras Extras) (any, error) {
	if deps.Factory == nil {
		return nil, fmt.Errorf("%w: dependency list has no factory", ErrInjection)
	}

	args := make([]any, 0, len(deps.Refs))
	for _, ref := range deps.Refs {
		v, err := provider(ctx, ref, extras)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	ctxlog.FromContext(ctx).Debug("Invoking dependency factory.", "refs", refNames(deps.Refs))
	return deps.Factory(args...)
}

// ParseDeps builds a Deps from a mixed list of sigiled string tokens and
// factory functions, in the array-with-trailing-factory style. Every string
// becomes a reference; the last function seen becomes the factory, wherever
// it appears in the list.
func ParseDeps(items ...any) (Deps, error) {
	var deps Deps
	for i, item := range items {
		switch v := item.(type) {
		case string:
			ref, err := ParseRef(v)
			if err != nil {
				return Deps{}, err
			}
			deps.Refs = append(deps.Refs, ref)
		case Ref:
			deps.Refs = append(deps.Refs, v)
		case func(args ...any) (any, error):
			deps.Factory = v
		default:
			return Deps{}, fmt.Errorf("%w: item %d has unsupported type %s", ErrInjection, i, reflect.TypeOf(item))
		}
	}
	if deps.Factory == nil {
		return Deps{}, fmt.Errorf("%w: dependency list has no factory", ErrInjection)
	}
	return deps, nil
}

func refNames(refs []Ref) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.String()
	}
	return names
}
