package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/comrelyy/blog-7-Eleven/objectstore"
)

// fakeStore is an in-memory objectstore.Store with real git-like semantics:
// trees snapshot the base commit's files, and UpdateRef is fast-forward only.
type fakeStore struct {
	mu      sync.Mutex
	seq     int
	blobs   map[string][]byte
	trees   map[string]map[string][]byte // tree sha -> full file snapshot
	commits map[string]fakeCommit
	refs    map[string]string

	// test hooks and fault injection
	afterCreateCommit func()
	blobErr           error
	readErrs          map[string]error

	updateRefCalls int
	messages       []string
}

type fakeCommit struct {
	tree    string
	parents []string
	message string
}

func newFakeStore() *fakeStore {
	f := &fakeStore{
		blobs:   map[string][]byte{},
		trees:   map[string]map[string][]byte{},
		commits: map[string]fakeCommit{},
		refs:    map[string]string{},
	}
	tree := f.nextSHA("tree")
	f.trees[tree] = map[string][]byte{}
	root := f.nextSHA("commit")
	f.commits[root] = fakeCommit{tree: tree, message: "initial"}
	f.refs["main"] = root
	return f
}

func (f *fakeStore) nextSHA(kind string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", kind, f.seq)
}

func (f *fakeStore) GetBranchHead(_ context.Context, branch string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha, ok := f.refs[branch]
	if !ok {
		return "", objectstore.ErrNotFound
	}
	return sha, nil
}

func (f *fakeStore) CreateBlob(_ context.Context, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blobErr != nil {
		return "", f.blobErr
	}
	sha := f.nextSHA("blob")
	f.blobs[sha] = append([]byte(nil), content...)
	return sha, nil
}

func (f *fakeStore) CreateTree(_ context.Context, entries []objectstore.TreeEntry, base string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	baseFiles, err := f.filesAt(base)
	if err != nil {
		return "", err
	}
	snapshot := make(map[string][]byte, len(baseFiles)+len(entries))
	for p, b := range baseFiles {
		snapshot[p] = b
	}
	for _, e := range entries {
		blob, ok := f.blobs[e.BlobSHA]
		if !ok {
			return "", fmt.Errorf("unknown blob %s", e.BlobSHA)
		}
		snapshot[e.Path] = blob
	}
	sha := f.nextSHA("tree")
	f.trees[sha] = snapshot
	return sha, nil
}

func (f *fakeStore) CreateCommit(_ context.Context, message, tree string, parents []string) (string, error) {
	f.mu.Lock()
	if _, ok := f.trees[tree]; !ok {
		f.mu.Unlock()
		return "", fmt.Errorf("unknown tree %s", tree)
	}
	sha := f.nextSHA("commit")
	f.commits[sha] = fakeCommit{tree: tree, parents: append([]string(nil), parents...), message: message}
	hook := f.afterCreateCommit
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return sha, nil
}

func (f *fakeStore) UpdateRef(_ context.Context, branch, sha string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateRefCalls++
	c, ok := f.commits[sha]
	if !ok {
		return fmt.Errorf("unknown commit %s", sha)
	}
	head := f.refs[branch]
	fastForward := false
	for _, p := range c.parents {
		if p == head {
			fastForward = true
		}
	}
	if !fastForward {
		return fmt.Errorf("update %s: %w", branch, objectstore.ErrRefConflict)
	}
	f.refs[branch] = sha
	f.messages = append(f.messages, c.message)
	return nil
}

func (f *fakeStore) ReadPath(_ context.Context, path, ref string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.readErrs[path]; ok {
		return nil, err
	}
	sha, ok := f.refs[ref]
	if !ok {
		sha = ref
	}
	files, err := f.filesAt(sha)
	if err != nil {
		return nil, err
	}
	b, ok := files[path]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

// filesAt resolves a commit or tree SHA to its file snapshot. Callers hold mu.
func (f *fakeStore) filesAt(sha string) (map[string][]byte, error) {
	if c, ok := f.commits[sha]; ok {
		sha = c.tree
	}
	files, ok := f.trees[sha]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	return files, nil
}

// putFile plants content at path on the branch head, bypassing the pipeline.
func (f *fakeStore) putFile(branch, path string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	head := f.refs[branch]
	base, _ := f.filesAt(head)
	snapshot := make(map[string][]byte, len(base)+1)
	for p, b := range base {
		snapshot[p] = b
	}
	snapshot[path] = append([]byte(nil), content...)
	tree := f.nextSHA("tree")
	f.trees[tree] = snapshot
	commit := f.nextSHA("commit")
	f.commits[commit] = fakeCommit{tree: tree, parents: []string{head}, message: "seed"}
	f.refs[branch] = commit
}

// advanceExternally simulates a foreign writer moving the branch with an
// empty commit.
func (f *fakeStore) advanceExternally(branch string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	head := f.refs[branch]
	commit := f.nextSHA("commit")
	f.commits[commit] = fakeCommit{tree: f.commits[head].tree, parents: []string{head}, message: "external"}
	f.refs[branch] = commit
}

// writes counts successful ref advances through the pipeline, the seed
// commit excluded.
func (f *fakeStore) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeStore) headFiles(branch string) map[string][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	files, _ := f.filesAt(f.refs[branch])
	out := make(map[string][]byte, len(files))
	for p, b := range files {
		out[p] = append([]byte(nil), b...)
	}
	return out
}
