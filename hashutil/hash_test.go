package hashutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/hashutil"
)

func TestHashIsStableAndDistinguishing(t *testing.T) {
	h1, err := hashutil.Hash([]byte("package main\n"))
	require.NoError(t, err)
	h2, err := hashutil.Hash([]byte("package main\n"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "hashing the same bytes twice must produce the same digest")

	h3, err := hashutil.Hash([]byte("package other\n"))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3, "different content must hash differently")
}

func TestHashEmptyInput(t *testing.T) {
	h, err := hashutil.Hash(nil)
	require.NoError(t, err)
	assert.NotZero(t, h)
}
