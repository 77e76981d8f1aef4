package app

import (
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/modules/env_vars"
	"github.com/specialistvlad/exposing/modules/print"
)

// builtinModules is the list of modules compiled into the binary. They are
// loadable by name without a shared object on disk.
var builtinModules = []*factory.Exports{
	env_vars.Exports,
	print.Exports,
}
