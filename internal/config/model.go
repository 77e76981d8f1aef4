package config

import (
	"errors"
	"fmt"
)

// SourceKind selects how a Source is resolved.
type SourceKind string

const (
	// SourceFile loads a single module by path.
	SourceFile SourceKind = "file"
	// SourceDirectory loads every module in a directory.
	SourceDirectory SourceKind = "directory"
	// SourceName loads a module by library name, from the builtins or the
	// search paths.
	SourceName SourceKind = "name"
)

// Manifest is the unified, format-agnostic component manifest.
type Manifest struct {
	// SearchPaths are consulted, in order, for modules loaded by name.
	SearchPaths []string
	// Sources are loaded in order.
	Sources []*Source
	// Require lists qualified names that must be creatable once every
	// source is loaded.
	Require []string
}

// Source is one entry of the manifest.
type Source struct {
	Kind SourceKind
	// Path is the module file or directory for file and directory sources.
	Path string
	// Name is the library name for name sources.
	Name string
	// Recursive descends into subdirectories of a directory source.
	Recursive bool
	// Optional sources may fail to load without failing startup.
	Optional bool
	// Origin is the manifest file that declared the source.
	Origin string
}

// String renders the source for logs and error messages.
func (s *Source) String() string {
	if s.Kind == SourceName {
		return fmt.Sprintf("%s %q", s.Kind, s.Name)
	}
	return fmt.Sprintf("%s %q", s.Kind, s.Path)
}

// Merge appends other's entries to m.
func (m *Manifest) Merge(other *Manifest) {
	m.SearchPaths = append(m.SearchPaths, other.SearchPaths...)
	m.Sources = append(m.Sources, other.Sources...)
	m.Require = append(m.Require, other.Require...)
}

// Validate checks every source and reports all problems at once.
func (m *Manifest) Validate() error {
	var errs []error
	for i, s := range m.Sources {
		var err error
		switch s.Kind {
		case SourceFile, SourceDirectory:
			if s.Path == "" {
				err = errors.New("path is required")
			}
			if s.Recursive && s.Kind == SourceFile {
				err = errors.New("recursive applies to directory sources only")
			}
		case SourceName:
			if s.Name == "" {
				err = errors.New("name is required")
			}
		default:
			err = fmt.Errorf("unknown kind %q", s.Kind)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("source #%d in %s: %w", i+1, s.Origin, err))
		}
	}
	return errors.Join(errs...)
}
