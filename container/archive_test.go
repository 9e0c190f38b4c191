package container

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveSink_RoundTrips(t *testing.T) {
	raw := bytes.Repeat([]byte("date=\"1444.11.11\"\nowner=\"SWE\"\n"), 64)

	var sink ArchiveSink
	compressed := sink.Compress(raw)
	assert.Less(t, len(compressed), len(raw))

	out, err := sink.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}
