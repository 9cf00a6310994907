package program

import (
	_ "embed"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
)

//go:embed stubs/django.toml
var djangoStubs []byte

// StubsName is the fixture name the embedded stubs are rendered under.
const StubsName = "<stubs>/django.toml"

// StubsSource returns the embedded stub fixture.
func StubsSource() []byte { return djangoStubs }

// Stubs renders the embedded ORM stubs into fs.
func Stubs(fs *source.FileSet, r diag.Reporter) ([]*nodes.Module, error) {
	return Parse(fs, StubsName, djangoStubs, source.FileVirtual, r)
}
