package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// ErrRevisionNotFound is returned when a revision does not resolve to a commit.
var ErrRevisionNotFound = errors.New("revision not found")

// Lister enumerates the tracked paths of a revision.
type Lister interface {
	ListFiles(revision string) ([]string, error)
}

// Fetcher retrieves the content of one tracked path at a revision.
// It never fails: anything that cannot be read comes back as a Blob with a SkipReason.
type Fetcher interface {
	Fetch(revision, path string) Blob
}

// GitStore reads revisions straight from a repository's object database.
// It implements both Lister and Fetcher. Object access is serialized because
// go-git repositories are not safe for concurrent readers.
type GitStore struct {
	repo *git.Repository

	mu    sync.Mutex
	trees map[string]*object.Tree
}

// NewGitStore wraps an already opened repository.
func NewGitStore(repo *git.Repository) *GitStore {
	return &GitStore{repo: repo, trees: make(map[string]*object.Tree)}
}

// OpenGitStore opens the repository at location. Git URLs are cloned into
// memory first; anything else is treated as a local path inside a work tree.
func OpenGitStore(location string, progress io.Writer) (*GitStore, error) {
	if isGitURL(location) {
		repo, err := cloneGitRepo(location, progress)
		if err != nil {
			return nil, err
		}
		return NewGitStore(repo), nil
	}

	repo, err := git.PlainOpenWithOptions(location, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository '%s': %w", location, err)
	}
	return NewGitStore(repo), nil
}

// isGitURL checks if the input string looks like a Git repository URL:
// anything with a scheme, or scp-style git@host:path. Plain paths, including
// bare repositories ending in .git, stay local.
func isGitURL(input string) bool {
	return strings.Contains(input, "://") || strings.HasPrefix(input, "git@")
}

// cloneGitRepo clones every branch of url into in-memory storage so remote
// tracking refs such as origin/develop resolve without touching disk.
func cloneGitRepo(url string, progress io.Writer) (*git.Repository, error) {
	repo, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{
		URL:      url,
		Progress: progress,
		Tags:     git.AllTags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository '%s': %w", url, err)
	}
	return repo, nil
}

// tree resolves revision to its root tree, caching the result. Callers must hold mu.
func (s *GitStore) tree(revision string) (*object.Tree, error) {
	if t, ok := s.trees[revision]; ok {
		return t, nil
	}

	hash, err := s.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRevisionNotFound, revision)
	}
	commit, err := s.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%v)", ErrRevisionNotFound, revision, err)
	}
	t, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%v)", ErrRevisionNotFound, revision, err)
	}

	s.trees[revision] = t
	return t, nil
}

// ListFiles returns every file path in the revision's tree, at any depth.
// Submodule entries are not files and are left out.
func (s *GitStore) ListFiles(revision string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tree(revision)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = t.Files().ForEach(func(f *object.File) error {
		paths = append(paths, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk tree of %s: %w", revision, err)
	}
	return paths, nil
}

// Fetch reads path at revision. Binary blobs, missing entries and any read
// failure are reported through Blob.Skip.
func (s *GitStore) Fetch(revision, path string) Blob {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tree(revision)
	if err != nil {
		return Blob{Skip: SkipError}
	}

	f, err := t.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return Blob{Skip: SkipMissing}
		}
		return Blob{Skip: SkipError}
	}

	binary, err := f.IsBinary()
	if err != nil {
		return Blob{Skip: SkipError}
	}
	if binary {
		return Blob{Skip: SkipBinary}
	}

	text, err := f.Contents()
	if err != nil {
		return Blob{Skip: SkipError}
	}
	return Blob{Text: text}
}
