// Package config loads size report configuration from TOML files.
//
// A configuration file names the columns to report and one or more file
// groups:
//
//	cols = ["filepath", "origin", "gzip"]
//	strict = false
//
//	[levels]
//	gzip = 9
//	brotli = 11
//
//	[[group]]
//	cwd = "src/"
//	src = ["app.js", "lib/**/*.js"]
//
// Source entries containing glob meta characters are expanded relative to the
// group's cwd; literal entries are kept as written so missing files are still
// reported by the pipeline.
package config

import (
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/sizereport/pkg/compress"
	"github.com/matzehuels/sizereport/pkg/errors"
	"github.com/matzehuels/sizereport/pkg/pipeline"
	"github.com/matzehuels/sizereport/pkg/transform"
)

// DefaultFile is the configuration file picked up from the working directory
// when none is given explicitly.
const DefaultFile = "sizereport.toml"

// Config is the decoded configuration file.
type Config struct {
	Cols    []string         `toml:"cols"`
	Strict  bool             `toml:"strict"`
	Format  string           `toml:"format"`
	TempDir string           `toml:"temp_dir"`
	Levels  map[string]int   `toml:"levels"`
	Groups  []pipeline.Group `toml:"group"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates TOML configuration data.
// Keys the configuration does not know are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks columns, levels, format and group directories.
func (c *Config) Validate() error {
	if len(c.Cols) > 0 {
		if err := transform.ValidateColumns(c.Cols, c.Strict); err != nil {
			return err
		}
	}
	if c.Format != "" {
		if err := pipeline.ValidateFormat(c.Format); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "format")
		}
	}
	for name, level := range c.Levels {
		if err := compress.ValidateLevel(compress.Algorithm(name), level); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "levels")
		}
	}
	for i, g := range c.Groups {
		// Paths are joined by concatenation.
		if g.Cwd != "" && !strings.HasSuffix(g.Cwd, "/") {
			return errors.New(errors.ErrCodeInvalidConfig, "group %d: cwd %q must end with /", i, g.Cwd)
		}
		for _, src := range g.Src {
			if src == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "group %d: empty src entry", i)
			}
			if isPattern(src) && !doublestar.ValidatePattern(src) {
				return errors.New(errors.ErrCodeInvalidPattern, "group %d: invalid pattern %q", i, src)
			}
		}
	}
	return nil
}

// Options returns the pipeline options described by the file.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Cols:   slices.Clone(c.Cols),
		Strict: c.Strict,
		Format: c.Format,
	}
}

// RegistryOptions returns the transform registry options described by the
// file: compression levels and the temp directory.
func (c *Config) RegistryOptions() []transform.Option {
	var opts []transform.Option
	if c.TempDir != "" {
		opts = append(opts, transform.WithTempDir(c.TempDir))
	}
	names := make([]string, 0, len(c.Levels))
	for name := range c.Levels {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		opts = append(opts, transform.WithLevel(compress.Algorithm(name), c.Levels[name]))
	}
	return opts
}

// Expand returns the configured groups with glob entries expanded.
func (c *Config) Expand() ([]pipeline.Group, error) {
	groups := make([]pipeline.Group, 0, len(c.Groups))
	for _, g := range c.Groups {
		eg, err := ExpandGroup(g)
		if err != nil {
			return nil, err
		}
		groups = append(groups, eg)
	}
	return groups, nil
}

// ExpandGroup replaces every glob entry of g.Src with the sorted list of files
// it matches under g.Cwd. Literal entries are kept in place, and a file
// already listed is not added twice by a pattern.
func ExpandGroup(g pipeline.Group) (pipeline.Group, error) {
	root := g.Cwd
	if root == "" {
		root = "."
	}
	fsys := os.DirFS(root)

	out := pipeline.Group{Cwd: g.Cwd, Src: make([]string, 0, len(g.Src))}
	seen := make(map[string]bool, len(g.Src))
	for _, src := range g.Src {
		if !isPattern(src) {
			out.Src = append(out.Src, src)
			seen[src] = true
			continue
		}

		matches, err := doublestar.Glob(fsys, strings.TrimPrefix(src, "./"), doublestar.WithFilesOnly())
		if err != nil {
			return pipeline.Group{}, errors.Wrap(errors.ErrCodeInvalidPattern, err, "expand %q in %q", src, g.Cwd)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			out.Src = append(out.Src, m)
		}
	}
	return out, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
