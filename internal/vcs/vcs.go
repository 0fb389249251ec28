// Package vcs guards in-place rewrites against losing uncommitted work.
package vcs

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrUncommitted marks a file that was not rewritten because git could not
// restore its current contents.
var ErrUncommitted = errors.New("uncommitted changes; commit or stash them, or rerun with --force")

// open finds the repository containing path. A path outside any repository
// yields a nil repository and no error.
func open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	return repo, err
}

// DirtyFiles returns the paths that are staged, modified or untracked in the
// repository containing root. Untracked files count because git holds no copy
// of them. Outside a repository nothing is reported.
func DirtyFiles(root string, paths []string) ([]string, error) {
	repo, err := open(root)
	if err != nil || repo == nil {
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}

	base := wt.Filesystem.Root()
	var dirty []string
	for _, p := range paths {
		rel, err := filepath.Rel(base, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		// clean tracked files have no entry
		st, ok := status[filepath.ToSlash(rel)]
		if !ok {
			continue
		}
		if st.Staging != git.Unmodified || st.Worktree != git.Unmodified {
			dirty = append(dirty, p)
		}
	}
	sort.Strings(dirty)
	return dirty, nil
}

// CurrentRef returns the current branch name, or the short commit hash for a
// detached HEAD. Outside a repository, or before the first commit, it
// returns "".
func CurrentRef(path string) (string, error) {
	repo, err := open(path)
	if err != nil || repo == nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", nil
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String()[:7], nil
}
