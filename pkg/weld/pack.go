package weld

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

type source struct {
	pack  string
	entry entry
}

// Pack is one merged channel of a Context
type Pack struct {
	ctx     *Context
	channel Channel
	format  int
	icon    *entry
	packs   []string
	files   map[string][]source
}

func newPack(ctx *Context, channel Channel) *Pack {
	return &Pack{
		ctx:     ctx,
		channel: channel,
		files:   make(map[string][]source),
	}
}

func (p *Pack) add(packName string, en entry) {
	p.files[en.name] = append(p.files[en.name], source{pack: packName, entry: en})
}

func (p *Pack) contribute(packName string, format int, icon *entry) {
	p.packs = append(p.packs, packName)
	if format > p.format {
		p.format = format
	}
	if p.icon == nil && icon != nil {
		p.icon = icon
	}
}

// Channel returns the channel this pack covers
func (p *Pack) Channel() Channel {
	return p.channel
}

// Packs returns the names of the inputs that contributed files, in load order
func (p *Pack) Packs() []string {
	return append([]string(nil), p.packs...)
}

// Len returns the number of distinct files in the pack
func (p *Pack) Len() int {
	return len(p.files)
}

// Files returns the sorted archive paths of the pack
func (p *Pack) Files() []string {
	names := make([]string, 0, len(p.files))
	for name := range p.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format returns the pack_format written to pack.mcmeta
func (p *Pack) Format() int {
	if p.format == 0 {
		return p.channel.defaultFormat()
	}
	return p.format
}

// Save writes the merged pack as a zip archive at path. A relative path is
// resolved against the Config output directory. Without overwrite an existing
// file is an error. The archive is written next to path and renamed into place.
func (p *Pack) Save(path string, overwrite bool) error {
	if p.ctx.closed {
		return errors.New(errors.ErrMergeSave, "merge context is closed")
	}
	path = resolve(p.ctx.cfg.Output, path)
	fsys := p.ctx.engine.fs

	if _, err := fsys.Stat(path); err == nil && !overwrite {
		return errors.Newf(errors.ErrMergeSave, "%s already exists", path).WithDetail("path", path)
	}

	tmp := path + ".tmp"
	f, err := fsys.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, errors.ErrMergeSave, "failed to create %s", tmp)
	}

	if err := p.write(f); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrMergeSave, "failed to write %s", filepath.Base(path))
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrMergeSave, "failed to flush %s", tmp)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrMergeSave, "failed to move merged pack to %s", path)
	}

	p.ctx.engine.logger.Info().
		Str("path", path).
		Str("channel", string(p.channel)).
		Int("packs", len(p.packs)).
		Int("files", len(p.files)).
		Msg("Merged pack saved")
	return nil
}

func (p *Pack) write(out io.Writer) error {
	opts := p.ctx.engine.opts
	w := zip.NewWriter(out)

	method := zip.Deflate
	if opts.Compression == CompressionStore {
		method = zip.Store
	} else {
		w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})
	}

	meta, err := p.meta(opts.Description)
	if err != nil {
		return err
	}
	if err := writeFile(w, "pack.mcmeta", meta, method); err != nil {
		return err
	}

	if p.icon != nil {
		data, err := readEntry(*p.icon)
		if err != nil {
			return err
		}
		if err := writeFile(w, "pack.png", data, method); err != nil {
			return err
		}
	}

	for _, name := range p.Files() {
		data, err := p.resolveFile(name, p.files[name])
		if err != nil {
			return err
		}
		if err := writeFile(w, name, data, method); err != nil {
			return err
		}
	}

	return w.Close()
}

func (p *Pack) meta(description string) ([]byte, error) {
	doc := map[string]interface{}{
		"pack": map[string]interface{}{
			"pack_format": p.Format(),
			"description": description,
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// resolveFile produces the merged content for one archive path
func (p *Pack) resolveFile(name string, sources []source) ([]byte, error) {
	contents := make([][]byte, 0, len(sources))
	for _, src := range sources {
		data, err := readEntry(src.entry)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMergeLoad, "failed to read %s from %s", name, src.pack)
		}
		contents = append(contents, data)
	}
	if len(contents) == 1 {
		return contents[0], nil
	}

	opts := p.ctx.engine.opts
	logger := p.ctx.engine.logger
	switch {
	case opts.MergeTags && isTagFile(name):
		merged, err := mergeTags(contents)
		if err == nil {
			return merged, nil
		}
		logger.Warn().Err(err).Str("file", name).Msg("Could not merge tag file, keeping the last one")
	case opts.MergeLang && isLangFile(name):
		merged, err := mergeLang(contents)
		if err == nil {
			return merged, nil
		}
		logger.Warn().Err(err).Str("file", name).Msg("Could not merge language file, keeping the last one")
	default:
		logger.Debug().
			Str("file", name).
			Str("winner", sources[len(sources)-1].pack).
			Int("conflicts", len(sources)-1).
			Msg("File overridden by a later pack")
	}
	return contents[len(contents)-1], nil
}

func writeFile(w *zip.Writer, name string, data []byte, method uint16) error {
	fw, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, bytes.NewReader(data))
	return err
}

// isTagFile matches data/<namespace>/tags/**/*.json
func isTagFile(name string) bool {
	parts := strings.Split(name, "/")
	return len(parts) >= 4 && parts[0] == "data" && parts[2] == "tags" && strings.HasSuffix(name, ".json")
}

// isLangFile matches assets/<namespace>/lang/<locale>.json
func isLangFile(name string) bool {
	parts := strings.Split(name, "/")
	return len(parts) == 4 && parts[0] == "assets" && parts[2] == "lang" && strings.HasSuffix(name, ".json")
}
