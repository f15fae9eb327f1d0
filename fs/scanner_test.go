package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alqudimi/deepdoc"
	"github.com/alqudimi/deepdoc/fs"
	"github.com/alqudimi/deepdoc/htmltomarkdown"
	"github.com/alqudimi/deepdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanner() *fs.Scanner {
	return fs.NewScanner(deepdoc.DefaultConfig().Scanning, htmltomarkdown.NewConverter(), nil)
}

func paths(r *deepdoc.ScanResult) []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Path)
	}
	return out
}

func file(r *deepdoc.ScanResult, p string) *deepdoc.ScannedFile {
	for _, f := range r.Files {
		if f.Path == p {
			return f
		}
	}
	return nil
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	t.Run("reports files, languages and totals", func(t *testing.T) {
		t.Parallel()

		root := filepath.Join(t.TempDir(), "demo")
		writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
		writeFile(t, root, "internal/store/store.go", "package store\n")
		writeFile(t, root, "scripts/build.sh", "#!/bin/sh\ngo build")
		writeFile(t, root, "NOTES", "plain text\n")

		r, err := newScanner().Scan(context.Background(), root)

		require.NoError(t, err)
		assert.Equal(t, "demo", r.Name)
		assert.Equal(t, root, r.Root)
		assert.ElementsMatch(t, []string{"main.go", "internal/store/store.go", "scripts/build.sh", "NOTES"}, paths(r))
		assert.Equal(t, 4, r.TotalFiles)
		assert.Equal(t, 3+1+2+1, r.TotalLines)
		assert.ElementsMatch(t, []string{"Go", "Shell"}, r.DetectedLanguages)

		main := file(r, "main.go")
		require.NotNil(t, main)
		assert.Equal(t, "Go", main.Language)
		assert.Equal(t, int64(len("package main\n\nfunc main() {}\n")), main.SizeBytes)
		assert.Equal(t, "package main\n\nfunc main() {}\n", main.Content)
		assert.Empty(t, file(r, "NOTES").Language)
	})

	t.Run("applies configured patterns and .gitignore", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, ".gitignore", "secret.txt\ngenerated/\n")
		writeFile(t, root, "app.py", "print('hi')\n")
		writeFile(t, root, "secret.txt", "token\n")
		writeFile(t, root, "generated/out.py", "x = 1\n")
		writeFile(t, root, "node_modules/lib/index.js", "module.exports = {}\n")
		writeFile(t, root, ".git/config", "[core]\n")
		writeFile(t, root, "debug.log", "trace\n")
		writeFile(t, root, "src/nested/debug.log", "trace\n")

		r, err := newScanner().Scan(context.Background(), root)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{".gitignore", "app.py"}, paths(r))
	})

	t.Run("respects max depth", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "a.go", "package a\n")
		writeFile(t, root, "one/b.go", "package b\n")
		writeFile(t, root, "one/two/c.go", "package c\n")

		s := newScanner()
		s.MaxDepth = 1
		r, err := s.Scan(context.Background(), root)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.go", "one/b.go"}, paths(r))
	})

	t.Run("skips files over the size limit", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "small.go", "package small\n")
		writeFile(t, root, "big.sql", strings.Repeat("SELECT 1;\n", 100))

		s := newScanner()
		s.MaxFileSize = 100
		r, err := s.Scan(context.Background(), root)

		require.NoError(t, err)
		assert.Equal(t, []string{"small.go"}, paths(r))
	})

	t.Run("binary files have no content", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "logo.png"), []byte{0x89, 'P', 'N', 'G', 0, 0, 1}, 0644))

		r, err := newScanner().Scan(context.Background(), root)

		require.NoError(t, err)
		f := file(r, "logo.png")
		require.NotNil(t, f)
		assert.Empty(t, f.Content)
		assert.Zero(t, f.LineCount)
		assert.Equal(t, int64(7), f.SizeBytes)
	})

	t.Run("duplicate content is excerpted once", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		content := "package copy\n\nfunc Same() {}\n"
		writeFile(t, root, "a/copy.go", content)
		writeFile(t, root, "b/copy.go", content)

		r, err := newScanner().Scan(context.Background(), root)

		require.NoError(t, err)
		require.Len(t, r.Files, 2)
		withContent := 0
		for _, f := range r.Files {
			assert.Equal(t, 3, f.LineCount)
			if f.Content != "" {
				withContent++
			}
		}
		assert.Equal(t, 1, withContent)
		assert.Equal(t, 6, r.TotalLines)
	})

	t.Run("converts html to markdown", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "index.html", "<html><body><h1>Welcome</h1><p>Hello <strong>there</strong>.</p></body></html>")

		r, err := newScanner().Scan(context.Background(), root)

		require.NoError(t, err)
		f := file(r, "index.html")
		require.NotNil(t, f)
		assert.Equal(t, "HTML", f.Language)
		assert.Contains(t, f.Content, "# Welcome")
		assert.Contains(t, f.Content, "**there**")
		assert.NotContains(t, f.Content, "<p>")
	})

	t.Run("keeps raw html when conversion fails", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "page.htm", "<p>raw</p>")

		s := newScanner()
		s.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "", deepdoc.Errorf(deepdoc.EINVALID, "broken")
			},
		}
		r, err := s.Scan(context.Background(), root)

		require.NoError(t, err)
		assert.Equal(t, "<p>raw</p>", file(r, "page.htm").Content)
	})

	t.Run("limits kept content", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "long.md", strings.Repeat("é", 100))

		s := newScanner()
		s.MaxContentBytes = 51
		r, err := s.Scan(context.Background(), root)

		require.NoError(t, err)
		f := file(r, "long.md")
		assert.Equal(t, strings.Repeat("é", 25), f.Content)
		assert.Equal(t, int64(200), f.SizeBytes)
	})

	t.Run("detects dependencies and frameworks", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "package.json", `{"dependencies": {"express": "^4.18.0", "react": "^18.0.0"}}`)
		writeFile(t, root, "manage.py", "import django\n")
		writeFile(t, root, ".env.example", "PORT=3000\n")

		r, err := newScanner().Scan(context.Background(), root)

		require.NoError(t, err)
		require.NotNil(t, r.Dependencies)
		assert.Equal(t, "npm", r.Dependencies.Manifests[0].Ecosystem)
		assert.Equal(t, []string{"PORT"}, r.Dependencies.EnvVars)
		assert.Equal(t, []string{"Django", "Express", "React"}, r.DetectedFrameworks)
	})

	t.Run("an empty directory yields an empty result", func(t *testing.T) {
		t.Parallel()

		r, err := newScanner().Scan(context.Background(), t.TempDir())

		require.NoError(t, err)
		assert.Empty(t, r.Files)
		assert.Zero(t, r.TotalFiles)
		assert.Nil(t, r.Dependencies)
	})

	t.Run("missing path is not found", func(t *testing.T) {
		t.Parallel()

		_, err := newScanner().Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))

		assert.Equal(t, deepdoc.ENOTFOUND, deepdoc.ErrorCode(err))
	})

	t.Run("a file is not a project", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "main.go", "package main\n")

		_, err := newScanner().Scan(context.Background(), filepath.Join(root, "main.go"))

		assert.Equal(t, deepdoc.EINVALID, deepdoc.ErrorCode(err))
	})

	t.Run("stops when canceled", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "main.go", "package main\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newScanner().Scan(ctx, root)

		assert.Equal(t, deepdoc.ECANCELED, deepdoc.ErrorCode(err))
	})
}

func TestLanguageFor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"main.go":          "Go",
		"src/App.TSX":      "TypeScript",
		"lib/util.py":      "Python",
		"include/vector.h": "C",
		"styles/site.scss": "CSS",
		"Makefile":         "",
		"archive.tar.gz":   "",
	}
	for p, want := range tests {
		assert.Equal(t, want, fs.LanguageFor(p), p)
	}
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, fs.CountLines(nil))
	assert.Equal(t, 1, fs.CountLines([]byte("one")))
	assert.Equal(t, 1, fs.CountLines([]byte("one\n")))
	assert.Equal(t, 3, fs.CountLines([]byte("one\n\nthree")))
}

func TestDetectFrameworks(t *testing.T) {
	t.Parallel()

	got := fs.DetectFrameworks(
		map[string]bool{"angular.json": true, "config/application.rb": true},
		&deepdoc.DependencyInfo{Manifests: []deepdoc.Manifest{{
			Dependencies: []deepdoc.Dependency{{Name: "github.com/gin-gonic/gin"}, {Name: "fastapi"}},
		}}},
	)

	assert.Equal(t, []string{"Angular", "FastAPI", "Gin", "Rails"}, got)
	assert.Empty(t, fs.DetectFrameworks(nil, nil))
}
