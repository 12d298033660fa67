package assets

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/hubastard/hiopengl/engine/gfx"
)

// StageOf infers the pipeline stage from a GLSL file extension.
func StageOf(name string) (gfx.Stage, error) {
	switch path.Ext(name) {
	case ".vert", ".vs":
		return gfx.StageVertex, nil
	case ".frag", ".fs":
		return gfx.StageFragment, nil
	}
	return 0, fmt.Errorf("shader %q: unknown stage extension", name)
}

// LoadShader reads a GLSL file from fsys. The stage comes from the extension.
func LoadShader(fsys fs.FS, name string) (gfx.Source, error) {
	stage, err := StageOf(name)
	if err != nil {
		return gfx.Source{}, err
	}
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return gfx.Source{}, fmt.Errorf("load shader %q: %w", name, err)
	}
	if len(b) == 0 {
		return gfx.Source{}, fmt.Errorf("load shader %q: empty file", name)
	}
	return gfx.Source{Name: name, Stage: stage, Text: string(b)}, nil
}

// Overlay reads name from the first filesystem that has it.
func Overlay(name string, fss ...fs.FS) (gfx.Source, error) {
	var lastErr error
	for _, fsys := range fss {
		if fsys == nil {
			continue
		}
		src, err := LoadShader(fsys, name)
		if err == nil {
			return src, nil
		}
		lastErr = err
		if _, statErr := fs.Stat(fsys, name); statErr == nil {
			// Present but unreadable or invalid: do not fall through.
			return gfx.Source{}, err
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("load shader %q: no filesystem", name)
	}
	return gfx.Source{}, lastErr
}
