package scene

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Script extensions recognised by Load.
const (
	ExtScript = ".dhs"
	ExtLua    = ".lua"
)

// IsScript reports whether path names a file Load can read.
func IsScript(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtScript, ExtLua:
		return true
	}
	return false
}

// Load reads a scene file. Files ending in .lua run as Lua scripts; anything
// else is parsed as a text scene script.
func Load(ctx context.Context, path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	defer f.Close()

	var s *Scene
	if strings.EqualFold(filepath.Ext(path), ExtLua) {
		s, err = ParseLua(ctx, f, filepath.Base(path))
	} else {
		s, err = Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	return s, nil
}
