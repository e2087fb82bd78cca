package courier_test

import (
	"testing"

	"tracking/internal/core/domain/model/courier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPopulatedRegistry() *courier.Registry {
	registry := courier.NewRegistry()
	fetcher := &fakeFetcher{}
	registry.Register(courier.NewACSProvider(fetcher))
	registry.Register(courier.NewGenikiProvider(fetcher))
	registry.Register(courier.NewELTAProvider(fetcher))
	registry.Register(courier.NewSpeedexProvider(fetcher))
	registry.Register(courier.NewGenericProvider(fetcher))
	return registry
}

func TestRegistry_Register(t *testing.T) {
	t.Run("registers and looks up providers by id", func(t *testing.T) {
		registry := newPopulatedRegistry()

		p, ok := registry.Get("elta")
		require.True(t, ok)
		assert.Equal(t, "elta", p.ID())
		assert.True(t, registry.Has("acs"))
		assert.False(t, registry.Has("ups"))
	})

	t.Run("last registration wins", func(t *testing.T) {
		registry := courier.NewRegistry()
		first := courier.NewACSProvider(&fakeFetcher{})
		second := courier.NewACSProvider(&fakeFetcher{})
		registry.Register(first)

		registry.Register(second)

		p, ok := registry.Get("acs")
		require.True(t, ok)
		assert.Same(t, second, p)
		assert.Len(t, registry.All(), 1)
	})

	t.Run("overwriting keeps the original position", func(t *testing.T) {
		registry := newPopulatedRegistry()

		registry.Register(courier.NewGenikiProvider(&fakeFetcher{}))

		ids := make([]string, 0)
		for _, p := range registry.All() {
			ids = append(ids, p.ID())
		}
		assert.Equal(t, []string{"acs", "geniki", "elta", "speedex", "generic"}, ids)
	})
}

func TestRegistry_All(t *testing.T) {
	t.Run("returns providers in registration order", func(t *testing.T) {
		registry := newPopulatedRegistry()

		all := registry.All()

		require.Len(t, all, 5)
		assert.Equal(t, "acs", all[0].ID())
		assert.Equal(t, "generic", all[4].ID())
	})

	t.Run("empty registry returns no providers", func(t *testing.T) {
		assert.Empty(t, courier.NewRegistry().All())
	})
}

func TestRegistry_Clear(t *testing.T) {
	registry := newPopulatedRegistry()

	registry.Clear()

	assert.Empty(t, registry.All())
	assert.False(t, registry.Has("acs"))
}

func TestDefaultPriority(t *testing.T) {
	// Generic is last on purpose: it is the permissive catch-all.
	assert.Equal(t,
		[]string{"acs", "geniki", "elta", "speedex", "generic"},
		courier.DefaultPriority())
}
