package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsConfigConcreteOrigin(t *testing.T) {
	cfg := corsConfig("http://localhost:5173")

	assert.Equal(t, "http://localhost:5173", cfg.AllowOrigins)
	assert.True(t, cfg.AllowCredentials)
}

func TestCorsConfigWildcardDisablesCredentials(t *testing.T) {
	// fiber panics on AllowCredentials + "*"; the wildcard case must ship
	// without credentials so the app still boots.
	cfg := corsConfig("*")

	assert.Equal(t, "*", cfg.AllowOrigins)
	assert.False(t, cfg.AllowCredentials)
}
