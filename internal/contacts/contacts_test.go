package contacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDirectory_Lookup(t *testing.T) {
	dir := NewDirectory([]string{"Alice@Example.com", " bob@example.com "}, zap.NewNop())

	assert.True(t, dir.IsKnownContact("alice@example.com"))
	assert.True(t, dir.IsKnownContact("ALICE@EXAMPLE.COM"))
	assert.True(t, dir.IsKnownContact("Bob <bob@example.com>"))
	assert.False(t, dir.IsKnownContact("carol@example.com"))
	assert.False(t, dir.IsKnownContact(""))
}

func TestNewDirectoryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	book := `[{"email": "alice@example.com", "name": "Alice"}, {"email": "bob@example.com"}]`
	require.NoError(t, os.WriteFile(path, []byte(book), 0o600))

	dir, err := NewDirectoryFromFile(path, []string{"carol@example.com"}, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, dir.IsKnownContact("alice@example.com"))
	assert.True(t, dir.IsKnownContact("bob@example.com"))
	assert.True(t, dir.IsKnownContact("carol@example.com"))
}

func TestNewDirectoryFromFile_Errors(t *testing.T) {
	_, err := NewDirectoryFromFile(filepath.Join(t.TempDir(), "missing.json"), nil, zap.NewNop())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = NewDirectoryFromFile(path, nil, zap.NewNop())
	assert.Error(t, err)
}
