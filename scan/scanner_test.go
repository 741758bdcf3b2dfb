package scan

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/gdoc/java"
)

func writeFile(t *testing.T, root, name, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const greeterModule = `{
  "package": "ignored",
  "classes": [{"name": "ignored.Greeter", "modifiers": ["public"],
    "members": [{"kind": "method", "name": "greet", "returnType": "java.lang.String", "modifiers": ["public"]}]}]
}`

func sampleTree(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, root, "com/example/Person.java", "package com.example;\npublic class Person { public String getName() { return null; } }\n")
	writeFile(t, root, "com/example/Greeter.groovy.json", greeterModule)
	writeFile(t, root, "Top.java", "class Top {}\n")
	writeFile(t, root, "README.md", "# not source\n")
	writeFile(t, root, ".git/Hidden.java", "class Hidden {}\n")
	return root
}

func TestDialectOf(t *testing.T) {
	d, err := DialectOf("a/B.java")
	require.NoError(t, err)
	assert.Equal(t, DialectJava, d)

	d, err = DialectOf("a/B.groovy.json")
	require.NoError(t, err)
	assert.Equal(t, DialectGroovy, d)

	_, err = DialectOf("a/B.groovy")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDiscover(t *testing.T) {
	root := sampleTree(t)

	units, err := Discover(root, DiscoverOptions{})
	require.NoError(t, err)

	got := map[string]Unit{}
	for _, u := range units {
		rel, err := filepath.Rel(root, u.Path)
		require.NoError(t, err)
		got[filepath.ToSlash(rel)] = u
	}
	require.Len(t, got, 3)
	assert.Equal(t, "com/example", got["com/example/Person.java"].PackagePath)
	assert.Equal(t, DialectGroovy, got["com/example/Greeter.groovy.json"].Dialect)
	assert.Equal(t, "", got["Top.java"].PackagePath)

	t.Run("dialect filter", func(t *testing.T) {
		units, err := Discover(root, DiscoverOptions{Dialects: []Dialect{DialectGroovy}})
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.Equal(t, DialectGroovy, units[0].Dialect)
	})

	t.Run("hidden directories", func(t *testing.T) {
		units, err := Discover(root, DiscoverOptions{IncludeHidden: true})
		require.NoError(t, err)
		assert.Len(t, units, 4)
	})

	t.Run("single file", func(t *testing.T) {
		units, err := Discover(filepath.Join(root, "Top.java"), DiscoverOptions{})
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.Empty(t, units[0].PackagePath)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := Discover(filepath.Join(root, "nope"), DiscoverOptions{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRun(t *testing.T) {
	root := sampleTree(t)
	units, err := Discover(root, DiscoverOptions{})
	require.NoError(t, err)

	s := New(WithWorkers(2))
	model, errs := s.Run(context.Background(), units)
	require.Empty(t, errs)

	assert.Equal(t, []string{"Top", "com/example/Greeter", "com/example/Person"}, model.Paths())
	person, ok := model.Get("com/example/Person")
	require.True(t, ok)
	assert.Len(t, person.Methods, 1)
}

func TestRunLaterUnitWins(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a/Dup.java", "class Dup { void first() {} }")
	b := writeFile(t, root, "b/Dup.java", "interface Dup { void second(); }")

	units := []Unit{
		{Path: a, Dialect: DialectJava, PackagePath: "p"},
		{Path: b, Dialect: DialectJava, PackagePath: "p"},
	}
	model, errs := New(WithWorkers(4)).Run(context.Background(), units)
	require.Empty(t, errs)
	require.Equal(t, 1, model.Len())

	dup, _ := model.Get("p/Dup")
	require.Len(t, dup.Methods, 1)
	assert.Equal(t, "second", dup.Methods[0].Name)
}

func TestRunCollectsErrors(t *testing.T) {
	root := t.TempDir()
	good := writeFile(t, root, "Good.java", "class Good {}")
	broken := writeFile(t, root, "Broken.java", "class Broken {\n  int ;\n}\n")
	badJSON := writeFile(t, root, "Bad.groovy.json", "{")

	units := []Unit{
		{Path: good, Dialect: DialectJava},
		{Path: broken, Dialect: DialectJava},
		{Path: badJSON, Dialect: DialectGroovy},
		{Path: filepath.Join(root, "Missing.java"), Dialect: DialectJava},
	}
	model, errs := New().Run(context.Background(), units)
	require.Len(t, errs, 3)

	var syntaxErr *java.SyntaxError
	assert.True(t, errors.As(errs[0], &syntaxErr))
	assert.ErrorIs(t, errs[2], os.ErrNotExist)

	assert.Equal(t, []string{"Broken", "Good"}, model.Paths(), "partial units still contribute")
}

func TestRunCancelled(t *testing.T) {
	root := sampleTree(t)
	units, err := Discover(root, DiscoverOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, errs := New().Run(ctx, units)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[len(errs)-1], context.Canceled)
}

func TestParseCache(t *testing.T) {
	s := New(WithCacheSize(8))
	u := Unit{Path: "mem/A.java", Dialect: DialectJava, PackagePath: "mem"}
	src := []byte("class A { public int getX() { return 0; } }")

	first, err := s.Parse(u, src)
	require.NoError(t, err)
	second, err := s.Parse(u, src)
	require.NoError(t, err)
	assert.Same(t, first, second)

	changed, err := s.Parse(u, []byte("class A {}"))
	require.NoError(t, err)
	assert.NotSame(t, first, changed)

	uncached := New(WithCacheSize(0))
	a, err := uncached.Parse(u, src)
	require.NoError(t, err)
	b, err := uncached.Parse(u, src)
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	_, err = s.Parse(Unit{Path: "x.kt"}, src)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "sources.jar")
	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"org/demo/Box.java":         "package org.demo;\npublic class Box<T> { public T get() { return null; } }\n",
		"META-INF/MANIFEST.MF":      "Manifest-Version: 1.0\n",
		".hidden/Skipped.java":      "class Skipped {}\n",
		"org/demo/Pipe.groovy.json": `{"classes": [{"name": "org.demo.Pipe"}]}`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	units, err := Discover(archive, DiscoverOptions{})
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "org/demo/Box.java", units[0].Entry)
	assert.Equal(t, "org/demo", units[0].PackagePath)
	assert.Equal(t, archive+"!org/demo/Box.java", units[0].String())

	model, errs := New().Run(context.Background(), units)
	require.Empty(t, errs)
	assert.Equal(t, []string{"org/demo/Box", "org/demo/Pipe"}, model.Paths())
	box, _ := model.Get("org/demo/Box")
	assert.Equal(t, "T", box.Methods[0].ReturnType)
}

func TestSubmit(t *testing.T) {
	root := sampleTree(t)
	s := New()
	defer s.Close()

	id, err := s.Submit(Request{Root: root})
	require.NoError(t, err)
	missing, err := s.Submit(Request{Root: filepath.Join(root, "nope")})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, r := range s.List() {
			if r.Status != StatusCompleted && r.Status != StatusFailed {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)

	ok, found := s.Get(id)
	require.True(t, found)
	assert.Equal(t, StatusCompleted, ok.Status)
	assert.Equal(t, 3, ok.Total)
	assert.Equal(t, 100, ok.ProgressPercent())

	failed, _ := s.Get(missing)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.NotEmpty(t, failed.Error)

	assert.Equal(t, 3, s.Model().Len())
	results := s.List()
	require.Len(t, results, 2)
	assert.Equal(t, id, results[0].ID)
}

func TestSubmitAfterClose(t *testing.T) {
	s := New()
	s.Close()
	s.Close()

	id, err := s.Submit(Request{Root: t.TempDir()})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, id)
	assert.Empty(t, s.List())
}

func TestResultSnapshots(t *testing.T) {
	root := sampleTree(t)
	s := New()
	defer s.Close()

	id, err := s.Submit(Request{Root: root})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		r, _ := s.Get(id)
		return r.Status == StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	got, _ := s.Get(id)
	got.Status = StatusFailed
	got.Errors = append(got.Errors, "changed by the caller")

	again, _ := s.Get(id)
	assert.Equal(t, StatusCompleted, again.Status)
	assert.NotContains(t, again.Errors, "changed by the caller")
	assert.NotSame(t, again, s.List()[0])
}
