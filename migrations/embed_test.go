package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	ups, err := fs.Glob(Files, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	body, err := fs.ReadFile(Files, ups[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS quotes")
}
