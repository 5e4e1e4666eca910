package flt

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// discovery is the result of listing a volume directory.
type discovery struct {
	metadata string
	slices   []string
}

// scanDirectory lists dir once, picking out the metadata file and the slice
// files. Sub-directories and unrelated files are ignored.
func scanDirectory(fsHandler fsProvider, dir string) (*discovery, error) {
	entries, err := fsHandler.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("(flt-scan) %w: %w", ErrDiscovery, err)
	}

	metadata := []string{}
	names := []string{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		switch name := entry.Name(); {
		case hasSuffixFold(name, MetadataSuffix):
			metadata = append(metadata, name)
		case hasSuffixFold(name, SliceSuffix):
			names = append(names, name)
		}
	}

	switch {
	case len(metadata) == 0:
		return nil, fmt.Errorf("(flt-scan) %w: %s", ErrMissingMetadata, dir)
	case len(metadata) > 1:
		slices.Sort(metadata)

		return nil, fmt.Errorf("(flt-scan) %w: %s", ErrAmbiguousMetadata, strings.Join(metadata, ", "))
	case len(names) == 0:
		return nil, fmt.Errorf("(flt-scan) %w: %s", ErrEmptyVolume, dir)
	}

	sortSlices(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}

	return &discovery{
		metadata: filepath.Join(dir, metadata[0]),
		slices:   paths,
	}, nil
}

func hasSuffixFold(s string, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
