// Package app contains the host application. It reads the component
// manifest, loads the modules it names into a loader, checks the required
// components, runs the requested actions and serves the diagnostics
// endpoints. It is decoupled from any specific entrypoint like a CLI.
package app
