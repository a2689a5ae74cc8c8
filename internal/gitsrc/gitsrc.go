// Package gitsrc loads file contents at arbitrary revisions of a git
// repository, so two historical versions of one file can be diffed without
// checking either out.
package gitsrc

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrFileNotFound indicates the file does not exist at the revision.
var ErrFileNotFound = errors.New("file not found at revision")

// Repository wraps an opened git repository.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository containing path, searching parent directories
// the way the git CLI does.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo}, nil
}

// FileAt returns the contents of a file at the given revision. The revision
// accepts anything git rev-parse accepts (branch, tag, hash, HEAD~2, ...).
func (r *Repository) FileAt(revision, path string) ([]byte, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("resolve revision %q: %w", revision, err)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}

	file, err := commit.File(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s@%s", ErrFileNotFound, path, revision)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read %s@%s: %w", path, revision, err)
	}

	return []byte(contents), nil
}
