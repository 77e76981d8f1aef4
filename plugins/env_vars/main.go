// Command env_vars builds the env_vars module as a Go plugin:
//
//	go build -buildmode=plugin -o libenv_vars.so ./plugins/env_vars
package main

import (
	"github.com/specialistvlad/exposing/internal/abi"
	module "github.com/specialistvlad/exposing/modules/env_vars"
)

// DllCreateFactory returns the class factory of the library.
func DllCreateFactory(out *abi.Unknown) abi.Result { return module.Exports.DllCreateFactory(out) }

// DllCanUnloadNow reports whether no objects are alive.
func DllCanUnloadNow() bool { return module.Exports.DllCanUnloadNow() }

func main() {}
