package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "roadmap", "files"}, names)
	assert.NotNil(t, root.RunE)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}

func TestRoadmapCommandRequiresSource(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"roadmap"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}

func TestBootstrapRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	opts := &rootOptions{configPath: filepath.Join(dir, "config.yaml"), envFile: filepath.Join(dir, ".env")}

	_, _, err := opts.bootstrap()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY not set")
}

func TestFilesCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/files", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{
			map[string]any{"id": "file-1", "object": "file", "filename": "user1s1thfoo.zip"},
		}})
	}))
	defer srv.Close()

	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", srv.URL+"/v1")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"files", "--config", filepath.Join(dir, "none.yaml"), "--env-file", filepath.Join(dir, ".env")})
	require.NoError(t, root.Execute())

	var files []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &files))
	assert.Equal(t, []map[string]string{{"id": "file-1", "name": "user1s1thfoo.zip"}}, files)
}
