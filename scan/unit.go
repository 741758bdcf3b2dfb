package scan

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

type Dialect string

const (
	DialectJava   Dialect = "java"
	DialectGroovy Dialect = "groovy"
)

// groovyASTSuffix marks JSON dumps of Groovy module trees.
const groovyASTSuffix = ".groovy.json"

var ErrUnsupported = errors.New("unsupported file type")

// DialectOf picks the dialect for a file name.
func DialectOf(name string) (Dialect, error) {
	switch {
	case strings.HasSuffix(name, ".java"):
		return DialectJava, nil
	case strings.HasSuffix(name, groovyASTSuffix):
		return DialectGroovy, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
}

func isArchive(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip", ".jar":
		return true
	}
	return false
}

// Unit is one compilation unit. When Entry is set, Path names a zip or jar
// archive and Entry the file inside it.
type Unit struct {
	Path        string  `json:"path"`
	Entry       string  `json:"entry,omitempty"`
	Dialect     Dialect `json:"dialect"`
	PackagePath string  `json:"packagePath,omitempty"`
}

func (u Unit) String() string {
	if u.Entry != "" {
		return u.Path + "!" + u.Entry
	}
	return u.Path
}

type DiscoverOptions struct {
	// Dialects restricts discovery. Empty means all.
	Dialects      []Dialect
	IncludeHidden bool
}

func (o DiscoverOptions) accepts(d Dialect) bool {
	return len(o.Dialects) == 0 || slices.Contains(o.Dialects, d)
}

// Discover finds the units below root. The package path of each unit is
// its directory relative to root, slash separated. root may also name a
// single source file or an archive.
func Discover(root string, opts DiscoverOptions) ([]Unit, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	if !info.IsDir() {
		if isArchive(root) {
			return DiscoverArchive(root, opts)
		}
		d, err := DialectOf(root)
		if err != nil {
			return nil, err
		}
		if !opts.accepts(d) {
			return nil, nil
		}
		return []Unit{{Path: root, Dialect: d}}, nil
	}

	var units []Unit
	err = filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if p != root && !opts.IncludeHidden && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		d, err := DialectOf(entry.Name())
		if err != nil || !opts.accepts(d) {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return err
		}
		units = append(units, Unit{Path: p, Dialect: d, PackagePath: packagePathOf(filepath.ToSlash(rel))})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	return units, nil
}

// DiscoverArchive lists the units stored in a zip or jar file, such as a
// sources jar.
func DiscoverArchive(archive string, opts DiscoverOptions) ([]Unit, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archive, err)
	}
	defer r.Close()

	var units []Unit
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		d, err := DialectOf(f.Name)
		if err != nil || !opts.accepts(d) {
			continue
		}
		if !opts.IncludeHidden && hiddenEntry(f.Name) {
			continue
		}
		units = append(units, Unit{
			Path:        archive,
			Entry:       f.Name,
			Dialect:     d,
			PackagePath: packagePathOf(path.Dir(f.Name)),
		})
	}
	slices.SortFunc(units, func(a, b Unit) int {
		return strings.Compare(a.Entry, b.Entry)
	})
	return units, nil
}

func hiddenEntry(name string) bool {
	dirs := strings.Split(path.Dir(name), "/")
	for _, d := range dirs {
		if strings.HasPrefix(d, ".") && d != "." {
			return true
		}
	}
	return false
}

func packagePathOf(dir string) string {
	if dir == "." {
		return ""
	}
	return dir
}
