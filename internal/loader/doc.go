// Package loader is the host side of component discovery.
//
// A Loader opens modules, resolves their class factories through the
// DllCreateFactory and DllCanUnloadNow entry points, and registers each
// factory under the library name the module reports. Components are then
// created by qualified name or by interface identifier; the first registered
// factory that knows the component wins.
//
// Modules come from two places. Go plugins (.so files built with
// -buildmode=plugin) are opened with the standard plugin package. Builtin
// modules are compiled into the host and registered with a BuiltinOpener;
// they are found by name before any search path is consulted.
//
// The loader is itself a boundary object (ComponentLoaderABI), and Shared
// returns the process-wide instance modules use to reach it.
package loader
