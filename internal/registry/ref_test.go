package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	testCases := []struct {
		token string
		want  Ref
	}{
		{token: "@xhr", want: ModuleRef("xhr")},
		{token: "#router", want: ServiceRef("router")},
		{token: "@a.b-c", want: ModuleRef("a.b-c")},
	}
	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			got, err := ParseRef(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.token, got.String())
		})
	}

	for _, bad := range []string{"", "xhr", "@", "#", "$x"} {
		_, err := ParseRef(bad)
		assert.ErrorIs(t, err, ErrInvalidReference, "token %q", bad)
	}
}

func TestMustRefs(t *testing.T) {
	assert.Equal(t, []Ref{ModuleRef("xhr"), ServiceRef("router")}, MustRefs("@xhr", "#router"))
	assert.Panics(t, func() { MustRefs("xhr") })
}

func TestRefKind(t *testing.T) {
	assert.Equal(t, "module", KindModule.String())
	assert.Equal(t, "service", KindService.String())
	assert.Equal(t, "unknown", Kind(0).String())
	assert.True(t, Ref{}.IsZero())
	assert.False(t, ModuleRef("x").IsZero())
}
