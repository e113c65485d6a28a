package weld

import (
	"fmt"
	"strings"
)

// Channel selects which half of the loaded packs is written out
type Channel string

const (
	// ChannelData selects data/ (datapacks)
	ChannelData Channel = "data"
	// ChannelResource selects assets/ (resourcepacks)
	ChannelResource Channel = "resource"
)

// Default pack formats used when no input declares one
const (
	DefaultDataPackFormat     = 48
	DefaultResourcePackFormat = 34
)

// Root returns the archive directory the channel covers
func (c Channel) Root() string {
	if c == ChannelResource {
		return "assets"
	}
	return "data"
}

func (c Channel) defaultFormat() int {
	if c == ChannelResource {
		return DefaultResourcePackFormat
	}
	return DefaultDataPackFormat
}

// ParseChannel parses "data" or "resource"
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "data", "datapack":
		return ChannelData, nil
	case "resource", "resourcepack", "assets":
		return ChannelResource, nil
	default:
		return "", fmt.Errorf("unknown channel: %s", s)
	}
}
