package planner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMeta(t *testing.T, path, guid string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := "fileFormatVersion: 2\nguid: " + guid + "\n"
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestFindByGUIDLocatesFile(t *testing.T) {
	dir := t.TempDir()
	assetPath := filepath.Join(dir, "Assets", "Legacy", "thing.prefab")
	if err := os.MkdirAll(filepath.Dir(assetPath), 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(assetPath, []byte("fake prefab"), 0666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	writeMeta(t, assetPath+".meta", "0123456789abcdef0123456789abcdef")

	found, ok := findByGUID(dir, "0123456789abcdef0123456789abcdef", false)
	if !ok {
		t.Fatal("expected to find the asset by guid")
	}
	if found != assetPath {
		t.Fatalf("found = %q, want %q", found, assetPath)
	}
}

func TestFindByGUIDLocatesFolder(t *testing.T) {
	dir := t.TempDir()
	folderPath := filepath.Join(dir, "Assets", "Legacy", "Stuff")
	if err := os.MkdirAll(folderPath, 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	writeMeta(t, folderPath+".meta", "fedcba9876543210fedcba9876543210")

	found, ok := findByGUID(dir, "fedcba9876543210fedcba9876543210", true)
	if !ok {
		t.Fatal("expected to find the folder by guid")
	}
	if found != folderPath {
		t.Fatalf("found = %q, want %q", found, folderPath)
	}
}

func TestFindByGUIDMissReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Assets"), 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if _, ok := findByGUID(dir, "00000000000000000000000000000000", false); ok {
		t.Fatal("expected no match in an empty Assets tree")
	}
}

func TestFindByGUIDKindMismatchIsNotAMatch(t *testing.T) {
	dir := t.TempDir()
	assetPath := filepath.Join(dir, "Assets", "thing.prefab")
	if err := os.MkdirAll(filepath.Dir(assetPath), 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(assetPath, []byte("x"), 0666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	writeMeta(t, assetPath+".meta", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	if _, ok := findByGUID(dir, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true); ok {
		t.Fatal("expected no match when a file's guid is queried as a folder")
	}
}
