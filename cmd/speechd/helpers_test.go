package main

import (
	"testing"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/config"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}
