package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/project"
	"github.com/scrylabs/scry/internal/types"
)

func buildProject(t *testing.T, files map[string]string) *project.Project {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	proj, err := project.NewCache(config.Default()).GetOrCreate(root)
	require.NoError(t, err)
	return proj
}

func TestFindExactMatchFirst(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"a.ts": "export function getUserById(id: string) {}\n",
		"b.ts": "export function getUser(id: string) {}\n",
	})

	results := Find(proj, "getUser", nil)
	require.Len(t, results, 2)
	assert.Equal(t, "getUser", results[0].Name)
	assert.Equal(t, "getUserById", results[1].Name)
}

func TestFindKindFilter(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"m.py": "user = None\n\ndef user_loader():\n    pass\n\nclass UserModel:\n    pass\n",
	})

	classes := Find(proj, "user", []types.SymbolKind{types.SymbolKindClass})
	require.Len(t, classes, 1)
	assert.Equal(t, "UserModel", classes[0].Name)
}

func TestFindIsDeterministic(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"x.py": "def handle():\n    pass\n",
		"y.py": "def handler():\n    pass\n",
		"z.py": "def handles():\n    pass\n",
	})

	first := Find(proj, "handle", nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Find(proj, "handle", nil))
	}
}

func TestFindNoMatches(t *testing.T) {
	proj := buildProject(t, map[string]string{"a.py": "def run():\n    pass\n"})
	assert.Empty(t, Find(proj, "nonexistent", nil))
}

func TestSuggestNearMiss(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"a.ts": "export function getUser() {}\nexport function setUser() {}\n",
	})

	suggestions := Suggest(proj, "getUsr")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "getUser", suggestions[0])
}
