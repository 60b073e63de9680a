package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlerTranslatesDirectoryWithBootstrap(t *testing.T) {
	dir := t.TempDir()
	src := "function Main.main 0\npush constant 2\npush constant 3\nadd\npop temp 0\npush constant 0\nreturn\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.vm"), []byte(src), 0o644))

	status := handler([]string{dir}, map[string]string{})
	require.Equal(t, 0, status)

	outPath := filepath.Join(dir, filepath.Base(dir)+".asm")
	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(out), "@256")
	require.Contains(t, string(out), "(Main.main)")
}

func TestHandlerTranslatesSingleFileWithoutBootstrap(t *testing.T) {
	dir := t.TempDir()
	src := "push constant 2\npush constant 3\nadd\n"
	path := filepath.Join(dir, "Main.vm")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	status := handler([]string{path}, map[string]string{})
	require.Equal(t, 0, status)

	out, err := os.ReadFile(filepath.Join(dir, "Main.asm"))
	require.NoError(t, err)
	require.NotContains(t, string(out), "@256")
	require.NotContains(t, string(out), "Sys.init")
}

func TestHandlerRejectsNoInput(t *testing.T) {
	require.Equal(t, -1, handler(nil, map[string]string{}))
}
