package weld

import (
	"io"
	"strings"

	"github.com/Nitrolaunch/weld/pkg/errors"
)

// Context holds the packs loaded by one Engine.Run
type Context struct {
	engine  *Engine
	cfg     Config
	data    *Pack
	assets  *Pack
	closers []io.Closer
	closed  bool
}

func newContext(e *Engine, cfg Config) *Context {
	ctx := &Context{engine: e, cfg: cfg}
	ctx.data = newPack(ctx, ChannelData)
	ctx.assets = newPack(ctx, ChannelResource)
	return ctx
}

// Data returns the datapack channel
func (c *Context) Data() *Pack {
	return c.data
}

// Assets returns the resourcepack channel
func (c *Context) Assets() *Pack {
	return c.assets
}

// Pack returns the pack for channel
func (c *Context) Pack(channel Channel) *Pack {
	if channel == ChannelResource {
		return c.assets
	}
	return c.data
}

// Close releases every archive opened by Run. It is safe to call more than once.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var first error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// add routes the entries of one input pack to the channels
func (c *Context) add(packName string, entries []entry) error {
	format := 0
	var icon *entry
	contributes := map[Channel]bool{}

	for i := range entries {
		en := entries[i]
		switch {
		case en.name == "pack.mcmeta":
			data, err := readEntry(en)
			if err != nil {
				return errors.Wrapf(err, errors.ErrMergeLoad, "failed to read pack.mcmeta of %s", packName)
			}
			f, err := parsePackFormat(data)
			if err != nil {
				c.engine.logger.Warn().Err(err).Str("pack", packName).Msg("Ignoring invalid pack.mcmeta")
				continue
			}
			format = f
		case en.name == "pack.png":
			icon = &entries[i]
		case strings.HasPrefix(en.name, ChannelData.Root()+"/"):
			c.data.add(packName, en)
			contributes[ChannelData] = true
		case strings.HasPrefix(en.name, ChannelResource.Root()+"/"):
			c.assets.add(packName, en)
			contributes[ChannelResource] = true
		default:
			c.engine.logger.Trace().Str("pack", packName).Str("file", en.name).Msg("Ignoring file outside data/ and assets/")
		}
	}

	// A pack spanning both channels declares its data format
	for channel := range contributes {
		f := format
		if channel == ChannelResource && contributes[ChannelData] {
			f = 0
		}
		c.Pack(channel).contribute(packName, f, icon)
	}
	return nil
}
