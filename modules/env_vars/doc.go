// Package env_vars is a sample component library. Its
// exposing.env.Snapshot component captures the process environment when it
// is created and serves lookups from that snapshot.
package env_vars
