package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownSources(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			engine, err := Get(name, Options{})
			require.NoError(t, err)
			require.NotNil(t, engine)
			assert.Equal(t, name, engine.Source().Name())
		})
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	for _, name := range []string{"Senado", "SENADO", " senado "} {
		engine, err := Get(name, Options{})
		require.NoError(t, err)
		assert.Equal(t, "senado", engine.Source().Name())
	}
}

func TestGetUnknownSource(t *testing.T) {
	_, err := Get("diario-oficial", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSource))
	assert.Contains(t, err.Error(), "diario-oficial")
}

func TestGetReturnsFreshEngines(t *testing.T) {
	a, err := Get("camara", Options{})
	require.NoError(t, err)
	b, err := Get("camara", Options{})
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.NotSame(t, a.Source(), b.Source())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"camara", "cnj", "ipea", "presidencia", "senado"}, Names())
}
