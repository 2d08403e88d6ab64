package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nameProvider(_ context.Context, ref Ref, _ Extras) (any, error) {
	return ref.Name, nil
}

func TestResolve_PassesArgumentsInOrder(t *testing.T) {
	var got []any
	deps := Deps{
		Refs: MustRefs("@a", "#b", "@c"),
		Factory: func(args ...any) (any, error) {
			got = args
			return "built", nil
		},
	}

	v, err := Resolve(context.Background(), deps, nameProvider, Extras{})
	require.NoError(t, err)
	assert.Equal(t, "built", v)
	assert.Equal(t, []any{"a", "b", "c"}, got)
}

func TestResolve_NoFactory(t *testing.T) {
	_, err := Resolve(context.Background(), Deps{Refs: MustRefs("@a")}, nameProvider, Extras{})
	assert.ErrorIs(t, err, ErrInjection)
}

func TestResolve_ProviderErrorStopsResolution(t *testing.T) {
	boom := errors.New("boom")
	var asked []string
	provider := func(_ context.Context, ref Ref, _ Extras) (any, error) {
		asked = append(asked, ref.Name)
		if ref.Name == "b" {
			return nil, boom
		}
		return ref.Name, nil
	}
	called := false
	deps := Deps{
		Refs:    MustRefs("@a", "@b", "@c"),
		Factory: func(...any) (any, error) { called = true; return nil, nil },
	}

	_, err := Resolve(context.Background(), deps, provider, Extras{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
	assert.Equal(t, []string{"a", "b"}, asked)
}

func TestResolve_PassesExtrasToProvider(t *testing.T) {
	owner := &fakeOwner{name: "docs"}
	var seen Owner
	provider := func(_ context.Context, _ Ref, extras Extras) (any, error) {
		seen = extras.Owner
		return nil, nil
	}
	deps := Deps{Refs: MustRefs("#x"), Factory: func(...any) (any, error) { return nil, nil }}

	_, err := Resolve(context.Background(), deps, provider, Extras{Owner: owner})
	require.NoError(t, err)
	assert.Same(t, owner, seen)
}

func TestParseDeps(t *testing.T) {
	factory := func(args ...any) (any, error) { return len(args), nil }

	t.Run("factory position does not matter", func(t *testing.T) {
		lists := [][]any{
			{"@a", "@b", "#c", factory},
			{factory, "@a", "@b", "#c"},
			{"@a", factory, "@b", "#c"},
		}
		for _, items := range lists {
			deps, err := ParseDeps(items...)
			require.NoError(t, err)
			assert.Equal(t, MustRefs("@a", "@b", "#c"), deps.Refs)

			n, err := Resolve(context.Background(), deps, nameProvider, Extras{})
			require.NoError(t, err)
			assert.Equal(t, 3, n)
		}
	})

	t.Run("last factory wins", func(t *testing.T) {
		first := func(...any) (any, error) { return "first", nil }
		last := func(...any) (any, error) { return "last", nil }
		deps, err := ParseDeps(first, "@a", last)
		require.NoError(t, err)

		v, err := deps.Factory()
		require.NoError(t, err)
		assert.Equal(t, "last", v)
	})

	t.Run("accepts refs", func(t *testing.T) {
		deps, err := ParseDeps(ModuleRef("xhr"), factory)
		require.NoError(t, err)
		assert.Equal(t, []Ref{ModuleRef("xhr")}, deps.Refs)
	})

	t.Run("missing factory", func(t *testing.T) {
		_, err := ParseDeps("@a", "@b")
		assert.ErrorIs(t, err, ErrInjection)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := ParseDeps("a", factory)
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("unsupported item", func(t *testing.T) {
		_, err := ParseDeps(42, factory)
		assert.ErrorIs(t, err, ErrInjection)
		assert.ErrorContains(t, err, "unsupported type int")
	})
}
