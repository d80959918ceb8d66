package main

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// exampleFiles is the fixture used across tests: two countable files, a
// lock file and a nested package-lock.json.
var exampleFiles = map[string]string{
	"a.txt":                    "x\ny",
	"b.lock":                   "lock contents\n",
	"vendor/package-lock.json": "{}\n",
	"c":                        "z",
}

var testSignature = &object.Signature{
	Name:  "revloc",
	Email: "revloc@example.com",
	When:  time.Unix(1700000000, 0),
}

// newMemoryRepo commits files into an in-memory repository, points
// origin/develop at that commit and returns the repository.
func newMemoryRepo(t *testing.T, files map[string]string) (*git.Repository, plumbing.Hash) {
	t.Helper()

	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for _, name := range sortedKeys(files) {
		require.NoError(t, util.WriteFile(fs, name, []byte(files[name]), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	hash, err := wt.Commit("initial", &git.CommitOptions{Author: testSignature})
	require.NoError(t, err)

	setRemoteBranch(t, repo, "develop", hash)
	return repo, hash
}

// newDiskRepo is newMemoryRepo for a repository on disk, returning its path.
func newDiskRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for _, name := range sortedKeys(files) {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(files[name]), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	hash, err := wt.Commit("initial", &git.CommitOptions{Author: testSignature})
	require.NoError(t, err)

	setRemoteBranch(t, repo, "develop", hash)
	return dir
}

func setRemoteBranch(t *testing.T, repo *git.Repository, branch string, hash plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", branch), hash)
	require.NoError(t, repo.Storer.SetReference(ref))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fakeStore is an in-memory Lister and Fetcher. Paths listed in skip are
// returned as unreadable with the given reason.
type fakeStore struct {
	revision string
	files    map[string]string
	skip     map[string]SkipReason

	mu      sync.Mutex
	fetched []string
}

func (f *fakeStore) ListFiles(revision string) ([]string, error) {
	if revision != f.revision {
		return nil, ErrRevisionNotFound
	}
	paths := make([]string, 0, len(f.files)+len(f.skip))
	for p := range f.files {
		paths = append(paths, p)
	}
	for p := range f.skip {
		paths = append(paths, p)
	}
	return paths, nil
}

func (f *fakeStore) Fetch(revision, path string) Blob {
	f.mu.Lock()
	f.fetched = append(f.fetched, path)
	f.mu.Unlock()

	if reason, ok := f.skip[path]; ok {
		return Blob{Skip: reason}
	}
	text, ok := f.files[path]
	if !ok {
		return Blob{Skip: SkipMissing}
	}
	return Blob{Text: text}
}

func mustMatcher(t *testing.T, patterns []string) *Matcher {
	t.Helper()
	m, err := NewMatcher(patterns)
	require.NoError(t, err)
	return m
}
