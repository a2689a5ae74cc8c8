package gitsrc

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, []string) {
	t.Helper()

	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	var hashes []string

	for _, content := range []string{"class C { }\n", "class C { int x; }\n"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "C.cs"), []byte(content), 0o600))

		_, err = worktree.Add("C.cs")
		require.NoError(t, err)

		hash, commitErr := worktree.Commit("update", &git.CommitOptions{
			Author: &object.Signature{Name: "test", Email: "test@example.com"},
		})
		require.NoError(t, commitErr)

		hashes = append(hashes, hash.String())
	}

	return dir, hashes
}

func TestFileAt_ReadsBothRevisions(t *testing.T) {
	t.Parallel()

	dir, hashes := initRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)

	first, err := repo.FileAt(hashes[0], "C.cs")
	require.NoError(t, err)
	require.Equal(t, "class C { }\n", string(first))

	second, err := repo.FileAt(hashes[1], "C.cs")
	require.NoError(t, err)
	require.Equal(t, "class C { int x; }\n", string(second))
}

func TestFileAt_MissingFile(t *testing.T) {
	t.Parallel()

	dir, hashes := initRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)

	_, err = repo.FileAt(hashes[0], "Missing.cs")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpen_NotARepository(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir())
	require.Error(t, err)
}
