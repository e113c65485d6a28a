package weld

import (
	"encoding/json"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/Nitrolaunch/weld/pkg/logging"
	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
)

// Compression methods accepted in Options
const (
	CompressionDeflate = "deflate"
	CompressionStore   = "store"
)

// Options tunes how packs are merged and written
type Options struct {
	Compression string
	MergeTags   bool
	MergeLang   bool
	Description string
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		Compression: CompressionDeflate,
		MergeTags:   true,
		MergeLang:   true,
		Description: "Welded Packs",
	}
}

// Config locates the inputs and outputs of one merge
type Config struct {
	// Output is the directory relative save paths are resolved against
	Output string
	// Directory is the working directory relative inputs are resolved against
	Directory string
}

// Engine loads packs through a filesystem
type Engine struct {
	fs     types.FS
	opts   Options
	logger zerolog.Logger
}

// NewEngine creates a merge engine
func NewEngine(fsys types.FS, opts Options) *Engine {
	if opts.Compression == "" {
		opts.Compression = CompressionDeflate
	}
	if opts.Description == "" {
		opts.Description = DefaultOptions().Description
	}
	return &Engine{
		fs:     fsys,
		opts:   opts,
		logger: logging.GetLogger("weld.engine"),
	}
}

type entry struct {
	name string
	open func() (io.ReadCloser, error)
}

type packMeta struct {
	Pack struct {
		PackFormat int `json:"pack_format"`
	} `json:"pack"`
}

// Run loads inputs, in order, into a new Context. On error every archive
// opened so far is closed before returning.
func (e *Engine) Run(inputs []string, cfg Config) (*Context, error) {
	ctx := newContext(e, cfg)

	for _, input := range inputs {
		if err := e.load(ctx, resolve(cfg.Directory, input)); err != nil {
			_ = ctx.Close()
			return nil, err
		}
	}

	e.logger.Debug().
		Int("inputs", len(inputs)).
		Int("dataFiles", ctx.data.Len()).
		Int("assetFiles", ctx.assets.Len()).
		Msg("Packs loaded")

	return ctx, nil
}

func (e *Engine) load(ctx *Context, input string) error {
	info, err := e.fs.Stat(input)
	if err != nil {
		return errors.Wrapf(err, errors.ErrMergeLoad, "failed to read pack %s", input)
	}

	var entries []entry
	switch {
	case info.IsDir():
		entries, err = e.loadDir(input)
	case isArchive(input):
		entries, err = e.loadZip(ctx, input, info.Size())
	default:
		e.logger.Warn().Str("path", input).Msg("Skipping input that is neither an archive nor a directory")
		return nil
	}
	if err != nil {
		return err
	}

	if !isPack(entries) {
		e.logger.Warn().Str("path", input).Msg("Skipping input without pack.mcmeta, data/ or assets/")
		return nil
	}

	return ctx.add(filepath.Base(input), entries)
}

func (e *Engine) loadZip(ctx *Context, input string, size int64) ([]entry, error) {
	f, err := e.fs.Open(input)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMergeLoad, "failed to open pack %s", input)
	}

	zr, err := zip.NewReader(f, size)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, errors.ErrMergeLoad, "pack %s is not a valid zip archive", input)
	}
	ctx.closers = append(ctx.closers, f)

	entries := make([]entry, 0, len(zr.File))
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		name, ok := cleanName(zf.Name)
		if !ok {
			continue
		}
		entries = append(entries, entry{name: name, open: zf.Open})
	}
	return entries, nil
}

func (e *Engine) loadDir(root string) ([]entry, error) {
	var entries []entry

	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		children, err := e.fs.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, errors.ErrMergeLoad, "failed to read pack directory %s", dir)
		}
		for _, child := range children {
			full := filepath.Join(dir, child.Name())
			name := path.Join(rel, child.Name())
			if child.IsDir() {
				if err := walk(full, name); err != nil {
					return err
				}
				continue
			}
			entries = append(entries, entry{
				name: name,
				open: func() (io.ReadCloser, error) { return e.fs.Open(full) },
			})
		}
		return nil
	}

	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return entries, nil
}

func readEntry(en entry) ([]byte, error) {
	rc, err := en.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

func parsePackFormat(data []byte) (int, error) {
	var meta packMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return 0, err
	}
	return meta.Pack.PackFormat, nil
}

func resolve(dir, p string) string {
	if dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func isArchive(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".zip", ".jar":
		return true
	}
	return false
}

func isPack(entries []entry) bool {
	for _, en := range entries {
		if en.name == "pack.mcmeta" ||
			strings.HasPrefix(en.name, ChannelData.Root()+"/") ||
			strings.HasPrefix(en.name, ChannelResource.Root()+"/") {
			return true
		}
	}
	return false
}

// cleanName normalizes an archive entry name, rejecting names that escape the root
func cleanName(name string) (string, bool) {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || strings.HasPrefix(name, "/") || name == ".." || strings.HasPrefix(name, "../") {
		return "", false
	}
	return name, true
}
