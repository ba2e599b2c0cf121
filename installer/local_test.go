package installer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCopyLocalCopiesTree(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "Runtime"), 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "package.json"), []byte(`{"name":"com.vrchat.base"}`), 0666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "Runtime", "Script.cs"), []byte("// hi"), 0666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "Packages", "com.vrchat.base")
	if err := copyLocal(src, dst); err != nil {
		t.Fatalf("copyLocal: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "package.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != `{"name":"com.vrchat.base"}` {
		t.Fatalf("package.json content = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dst, "Runtime", "Script.cs")); err != nil {
		t.Fatalf("expected nested file to be copied: %v", err)
	}
}

func TestCopyLocalRejectsAbsoluteSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}
	src := t.TempDir()
	if err := os.Symlink("/etc/passwd", filepath.Join(src, "link")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "Packages", "com.vrchat.base")
	if err := copyLocal(src, dst); err == nil {
		t.Fatalf("expected copyLocal to reject a symlink with an absolute target")
	}
}
