// Package render turns unified diff text into HTML documents.
package render

import "errors"

// ErrUnavailable reports that a renderer cannot run in this environment, as
// opposed to running and producing empty output.
var ErrUnavailable = errors.New("renderer unavailable")

// Renderer renders a unified diff to HTML. An empty patch renders to empty
// output without error.
type Renderer interface {
	Render(patch string) (string, error)
	Name() string
}

// Select returns the renderer for a configured name. The reserved name
// "builtin" picks the in-process renderer, an empty name picks the default
// external command, and anything else is treated as an external command line.
func Select(name string) Renderer {
	switch name {
	case BuiltinName:
		return NewBuiltinRenderer()
	case "":
		return NewExecRenderer(DefaultCommand)
	default:
		return NewExecRenderer(name)
	}
}
