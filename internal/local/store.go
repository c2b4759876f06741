// Package local reads and writes the export directory: one JSON file per
// folder or dashboard, named after its uid.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/agentstation/dashsync/pkg/constants"
	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/errors"
	"github.com/agentstation/dashsync/pkg/logging"
)

// Store is an export directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// Option configures a Store.
type Option func(*Store)

// WithFs sets the filesystem the directory lives on. Defaults to the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// New creates a store for dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{fs: afero.NewOsFs(), dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the store reads and writes.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads every *.json file directly inside the directory, in name
// order. Empty and malformed files are logged, returned as defects and
// otherwise ignored. A missing directory, or one without any *.json file,
// is an error.
func (s *Store) Load(ctx context.Context) ([]*dashboards.Definition, []error, error) {
	logger := logging.FromContext(ctx)

	info, err := s.fs.Stat(s.dir)
	if err != nil {
		return nil, nil, errors.NewConfigError("directory", fmt.Sprintf("cannot read %s", s.dir), err)
	}
	if !info.IsDir() {
		return nil, nil, errors.NewConfigError("directory", fmt.Sprintf("%s is not a directory", s.dir), nil)
	}

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, nil, errors.WrapIO("read", s.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), constants.DefinitionExt) {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, nil, errors.NewConfigError("directory", fmt.Sprintf("no *%s files found in %s", constants.DefinitionExt, s.dir), nil)
	}

	var (
		defs    []*dashboards.Definition
		defects []error
	)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}

		data, err := afero.ReadFile(s.fs, path)
		if err != nil {
			err = errors.WrapIO("read", path, err)
			logger.Warn().Err(err).Msg("Cannot read file, ignoring it")
			defects = append(defects, err)
			continue
		}

		def, err := dashboards.ParseDefinition(path, data)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Invalid dashboard file, ignoring it")
			defects = append(defects, err)
			continue
		}
		defs = append(defs, def)
	}

	logger.Debug().Int("files", len(files)).Int("definitions", len(defs)).Str("dir", s.dir).Msg("Loaded definitions")
	return defs, defects, nil
}

// LoadSet loads the directory and partitions it into folders and
// dashboards. Files that could not be read or parsed are reported in the
// set's Defects alongside definitions rejected by the partition.
func (s *Store) LoadSet(ctx context.Context) (*dashboards.LocalSet, error) {
	defs, defects, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	set := dashboards.Partition(defs)
	set.Defects = append(defects, set.Defects...)
	return set, nil
}

// Save writes one definition as <uid>.json, creating the directory if
// needed.
func (s *Store) Save(def *dashboards.Definition) (string, error) {
	uid := def.UID()
	if uid == "" {
		return "", &errors.ValidationError{Source: def.Source, Field: "dashboard.uid", Message: "missing"}
	}
	if strings.ContainsAny(string(uid), `/\`) || uid == "." || uid == ".." {
		return "", &errors.ValidationError{Source: def.Source, Field: "dashboard.uid", Value: uid, Message: "not usable as a file name"}
	}

	data, err := json.MarshalIndent(def.Envelope(), "", "  ")
	if err != nil {
		return "", errors.WrapParse("json", def.Source, err)
	}

	if err := s.fs.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", s.dir, err)
	}

	path := filepath.Join(s.dir, string(uid)+constants.DefinitionExt)
	if err := afero.WriteFile(s.fs, path, data, constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}
