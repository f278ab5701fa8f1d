package providers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompression_SeedPayloadRoundtrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	seed := []byte(`[{"id":"u1","name":"Abu Bakar Ali","email":"abu@school.test","role":"student"}]`)
	compressed, err := c.Compress(seed)
	require.NoError(t, err)
	assert.NotEqual(t, seed, compressed)

	restored, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, seed, restored)
}

func TestZstdCompression_EmptyPayload(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress([]byte{})
	require.NoError(t, err)

	restored, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, restored)
}

func TestZstdCompression_RepetitiveReportShrinks(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	report := bytes.Repeat([]byte(`{"row":12,"name":"Unknown"}`), 20_000)
	compressed, err := c.Compress(report)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(report)/2)
}

func TestZstdCompression_DecompressInvalidData(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Decompress([]byte("plain json, not zstd"))
	assert.Error(t, err)
}
