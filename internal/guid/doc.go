// Package guid provides the 128-bit identifier that names every interface
// and marshalable type crossing a module boundary.
//
// A GUID is a plain comparable value. Its wire form is 16 bytes with the
// three integer fields in big-endian order followed by the eight raw bytes
// of Data4, which is the same byte order RFC 4122 uses for UUIDs. Its text
// form is the upper-case hyphenated 8-4-4-4-12 grouping.
//
// FromHash derives identifiers for parameterized types. Two modules that
// hash the same byte sequence always agree on the result without sharing any
// registry.
package guid
