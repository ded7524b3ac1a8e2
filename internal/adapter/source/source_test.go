package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/arcade/internal/adapter"
)

func TestNewSourcesFromConfig(t *testing.T) {
	cfg := adapter.DefaultConfig()

	_, err := NewSourcesFromConfig(cfg, adapter.NullLogger())
	require.Error(t, err)

	cfg.Catalog.APIKey = "k"
	s, err := NewSourcesFromConfig(cfg, adapter.NullLogger())
	require.NoError(t, err)
	assert.NotNil(t, s.Catalog)
	assert.Nil(t, s.Library)
	assert.False(t, NewSession(cfg).CanMutate())

	cfg.Library.BaseURL = "https://lib.example.com"
	s, err = NewSourcesFromConfig(cfg, adapter.NullLogger())
	require.NoError(t, err)
	assert.NotNil(t, s.Library)
	assert.Equal(t, "https://lib.example.com", s.LibraryScope)
	assert.False(t, NewSession(cfg).CanMutate())

	cfg.Library.Token = "tok"
	assert.True(t, NewSession(cfg).CanMutate())
}
