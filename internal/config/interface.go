package config

import "context"

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads every manifest file found under paths (files or
	// directories) and merges them into one Manifest, in lexical file order.
	Load(ctx context.Context, paths ...string) (*Manifest, error)
}

type multiLoader []Loader

// Multi returns a Loader that runs every loader over the same paths and
// merges the results in loader order. Each loader picks out the files of its
// own format.
func Multi(loaders ...Loader) Loader {
	return multiLoader(loaders)
}

func (m multiLoader) Load(ctx context.Context, paths ...string) (*Manifest, error) {
	manifest := &Manifest{}
	for _, l := range m {
		part, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		manifest.Merge(part)
	}
	return manifest, nil
}
