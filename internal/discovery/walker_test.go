package discovery

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gitscan/internal/logging"
)

// fakeBackend classifies directories by their path relative to a root.
type fakeBackend struct {
	root      string
	bare      map[string]bool
	worktree  map[string]bool
	worktrees map[string][]string
	listFails map[string]bool
	probed    []string
}

func newFakeBackend(root string) *fakeBackend {
	return &fakeBackend{
		root:      root,
		bare:      map[string]bool{},
		worktree:  map[string]bool{},
		worktrees: map[string][]string{},
		listFails: map[string]bool{},
	}
}

func (f *fakeBackend) rel(path string) string {
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (f *fakeBackend) IsBareAt(path string) bool {
	f.probed = append(f.probed, f.rel(path))
	return f.bare[f.rel(path)]
}

func (f *fakeBackend) IsWorkTreeAt(path string) bool {
	return f.worktree[f.rel(path)]
}

func (f *fakeBackend) ListWorktrees(path string) ([]string, bool) {
	if f.listFails[f.rel(path)] {
		return nil, false
	}
	return f.worktrees[f.rel(path)], true
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
}

// relEntries renders entries as "kind rel/path" for compact comparisons.
func relEntries(root string, entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		p := e.Path
		if rel, err := filepath.Rel(root, e.Path); err == nil && !filepath.IsAbs(rel) && rel[0] != '.' {
			p = filepath.ToSlash(rel)
		}
		out = append(out, e.Kind.String()+" "+p)
	}
	return out
}

func assertEntries(t *testing.T, root string, got []Entry, want []string) {
	t.Helper()
	gotRel := relEntries(root, got)
	if len(want) == 0 && len(gotRel) == 0 {
		return
	}
	if !reflect.DeepEqual(gotRel, want) {
		t.Fatalf("entries mismatch\n got: %q\nwant: %q", gotRel, want)
	}
}

func TestWalk_DepthOneListsImmediateChildren(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "alpha/inner", "beta")
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewWalker(newFakeBackend(root), nil)
	assertEntries(t, root, w.Walk(root, 1), []string{"dir alpha", "dir beta"})
}

func TestWalk_PlainExpansionDropsPlainEntries(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "projects/docs", "projects/service")
	fb := newFakeBackend(root)
	fb.worktree["projects/service"] = true

	w := NewWalker(fb, nil)
	assertEntries(t, root, w.Walk(root, 1), []string{
		"dir projects",
		"git projects/service",
	})
}

func TestWalk_NestingCutoff(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/b/c", "x/y/z/w")
	fb := newFakeBackend(root)
	fb.worktree["a/b/c"] = true
	fb.worktree["x/y/z/w"] = true

	w := NewWalker(fb, nil)
	assertEntries(t, root, w.Walk(root, 1), []string{
		"dir a",
		"git a/b/c",
		"dir x",
	})
}

func TestWalk_InnerExpansionIgnoresConfiguredDepth(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/b/c/d")
	fb := newFakeBackend(root)
	fb.worktree["a/b/c/d"] = true

	w := NewWalker(fb, nil)
	// Depth 2 lists a and a/b directly; expansion below a/b only reaches
	// a/b/c/d through two more fixed-depth hops from a/b.
	assertEntries(t, root, w.Walk(root, 2), []string{
		"dir a",
		"dir a/b",
		"git a/b/c/d",
	})
}

func TestWalk_DepthTwoEnumeratesGrandchildren(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/b", "c")

	w := NewWalker(newFakeBackend(root), nil)
	assertEntries(t, root, w.Walk(root, 2), []string{"dir a", "dir a/b", "dir c"})
}

func TestWalk_BareRepositoryExpandsWorktrees(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "repo.git/refs", "zeta")
	fb := newFakeBackend(root)
	fb.bare["repo.git"] = true
	fb.worktrees["repo.git"] = ParseWorktreeList(
		"/a/wt1 1234abcd [main]\n/repo.git (bare)\n/a/wt2 5678efab [dev]\n")

	w := NewWalker(fb, nil)
	assertEntries(t, root, w.Walk(root, 1), []string{
		"bare repo.git",
		"wt /a/wt1",
		"wt /a/wt2",
		"dir zeta",
	})
	for _, p := range fb.probed {
		if p == "repo.git/refs" {
			t.Fatal("bare repository contents should not be probed at depth 1")
		}
	}
}

func TestWalk_BareListingFailureKeepsBareEntry(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "repo.git")
	fb := newFakeBackend(root)
	fb.bare["repo.git"] = true
	fb.listFails["repo.git"] = true

	w := NewWalker(fb, nil)
	assertEntries(t, root, w.Walk(root, 1), []string{"bare repo.git"})
}

func TestWalk_BareWinsOverWorkTree(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "odd")
	fb := newFakeBackend(root)
	fb.bare["odd"] = true
	fb.worktree["odd"] = true

	w := NewWalker(fb, nil)
	assertEntries(t, root, w.Walk(root, 1), []string{"bare odd"})
}

func TestWalk_GitWorktreeIsNotDescended(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "app/vendor/lib")
	fb := newFakeBackend(root)
	fb.worktree["app"] = true
	fb.worktree["app/vendor/lib"] = true

	w := NewWalker(fb, nil)
	assertEntries(t, root, w.Walk(root, 1), []string{"git app"})
	for _, p := range fb.probed {
		if p != "app" {
			t.Fatalf("unexpected probe of %q", p)
		}
	}
}

func TestWalk_MissingRootYieldsNothing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")
	w := NewWalker(newFakeBackend(root), nil)
	if got := w.Walk(root, 3); len(got) != 0 {
		t.Fatalf("expected no entries, got %v", got)
	}
}

func TestWalk_NonPositiveDepthYieldsNothing(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a")
	w := NewWalker(newFakeBackend(root), nil)
	if got := w.Walk(root, 0); len(got) != 0 {
		t.Fatalf("expected no entries, got %v", got)
	}
}

func TestWalk_SymlinksBelowRootAreNotFollowed(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	mkdirs(t, elsewhere, "target")
	mkdirs(t, root, "real")
	if err := os.Symlink(filepath.Join(elsewhere, "target"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	w := NewWalker(newFakeBackend(root), nil)
	assertEntries(t, root, w.Walk(root, 2), []string{"dir real"})
}

func TestWalk_SymlinkedRootIsWalked(t *testing.T) {
	target := t.TempDir()
	mkdirs(t, target, "inside")
	link := filepath.Join(t.TempDir(), "root-link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	w := NewWalker(newFakeBackend(link), nil)
	assertEntries(t, link, w.Walk(link, 1), []string{"dir inside"})
}

func TestWalk_Idempotent(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/b/c", "repo.git", "svc", "z/y")
	fb := newFakeBackend(root)
	fb.bare["repo.git"] = true
	fb.worktrees["repo.git"] = []string{"/wt/one"}
	fb.worktree["svc"] = true
	fb.worktree["a/b/c"] = true

	w := NewWalker(fb, nil)
	first := w.Walk(root, 2)
	second := w.Walk(root, 2)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("walk not idempotent:\n%v\n%v", first, second)
	}
}

func TestWalk_DepthOneReportsOnlyChildrenOrNestedRepos(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/b/c", "d/e")
	fb := newFakeBackend(root)
	fb.worktree["a/b"] = true

	w := NewWalker(fb, nil)
	for _, e := range w.Walk(root, 1) {
		rel, _ := filepath.Rel(root, e.Path)
		if e.Kind == PlainDirectory && filepath.Dir(rel) != "." {
			t.Errorf("plain directory %q reported beyond depth 1", rel)
		}
	}
}

func TestWalk_LogsClassifications(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "svc")
	fb := newFakeBackend(root)
	fb.worktree["svc"] = true

	lm := logging.NewTestLogManager(16)
	defer func() { _ = lm.Close() }()

	NewWalker(fb, lm.For("discovery")).Walk(root, 1)

	entries := lm.Drain()
	if len(entries) == 0 {
		t.Fatal("expected a debug entry per classified directory")
	}
	if entries[0].Message != "classified directory" {
		t.Errorf("Message = %q", entries[0].Message)
	}
	if v, _ := entries[0].Field("kind"); v != "git" {
		t.Errorf("kind field = %v, want git", v)
	}
}
