// Package factory is the module side of component discovery.
//
// A module declares its components with Define and publishes them with
// Export. The resulting Exports value provides the two entry points every
// module offers the host: DllCreateFactory, which hands out a class factory
// boundary object, and DllCanUnloadNow, which reports whether any boundary
// object is still alive.
//
// A class factory creates components either by qualified name (for example
// "exposing.print.Printer") or by the identifier of the component's first
// declared interface.
package factory
