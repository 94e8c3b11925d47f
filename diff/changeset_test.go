package diff

import (
	"testing"
)

const sampleDiff = `diff --git a/cmd/root.go b/cmd/root.go
index 1a2b3c4..5d6e7f8 100644
--- a/cmd/root.go
+++ b/cmd/root.go
@@ -10,6 +10,8 @@ import (
 	"os"
+	"os/signal"
+	"syscall"
 )
-var verbose bool
diff --git a/docs/old.md b/docs/new.md
similarity index 95%
rename from docs/old.md
rename to docs/new.md
diff --git a/assets/logo.png b/assets/logo.png
new file mode 100644
index 0000000..e69de29
Binary files /dev/null and b/assets/logo.png differ
`

func TestParse(t *testing.T) {
	cs := Parse(sampleDiff)

	if len(cs.Files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(cs.Files))
	}

	expectedPaths := []string{"cmd/root.go", "docs/new.md", "assets/logo.png"}
	paths := cs.Paths()
	for i, p := range expectedPaths {
		if paths[i] != p {
			t.Errorf("Expected path %d to be %s, got %s", i, p, paths[i])
		}
	}

	root := cs.Files[0]
	if root.Added != 2 || root.Removed != 1 {
		t.Errorf("Expected +2/-1 for cmd/root.go, got +%d/-%d", root.Added, root.Removed)
	}
	if len(root.Header) != 4 {
		t.Errorf("Expected 4 header lines, got %d", len(root.Header))
	}
	if root.Body[0] != "@@ -10,6 +10,8 @@ import (" {
		t.Errorf("Expected body to start with the hunk header, got %s", root.Body[0])
	}

	if len(cs.Files[2].Body) != 0 {
		t.Errorf("Expected binary file to have no hunk body, got %v", cs.Files[2].Body)
	}

	added, removed := cs.Stats()
	if added != 2 || removed != 1 {
		t.Errorf("Expected stats +2/-1, got +%d/-%d", added, removed)
	}

	if cs.String() != sampleDiff {
		t.Error("Expected String to reproduce the input")
	}
}

func TestParse_Preamble(t *testing.T) {
	text := "some preamble\n" + sampleDiff
	cs := Parse(text)

	if len(cs.Files) != 4 {
		t.Fatalf("Expected preamble plus 3 files, got %d", len(cs.Files))
	}
	if cs.Files[0].Path != "" || len(cs.Files[0].Header) != 0 {
		t.Errorf("Expected preamble section without path or header, got %+v", cs.Files[0])
	}
	if len(cs.Paths()) != 3 {
		t.Errorf("Expected 3 paths, got %v", cs.Paths())
	}
}

func TestParse_Empty(t *testing.T) {
	cs := Parse("")
	if !cs.IsEmpty() {
		t.Error("Expected empty change set")
	}
	if cs.Size() != 0 {
		t.Errorf("Expected size 0, got %d", cs.Size())
	}

	if !Parse("  \n").IsEmpty() {
		t.Error("Expected whitespace-only diff to be empty")
	}
}
