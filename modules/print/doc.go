// Package print is a sample component library. It exports the
// exposing.print.Printer component, which writes lines to an output and
// remembers what it wrote.
package print
