// Package tomlconfig provides the TOML implementation of config.Loader.
//
//	search_paths = ["${manifest_dir}/plugins"]
//	require = ["exposing.print.Printer"]
//
//	[[source]]
//	kind = "name"
//	name = "print"
//
//	[[source]]
//	kind = "directory"
//	path = "${EXPOSING_PLUGIN_DIR}"
//	recursive = true
//
// String values expand ${manifest_dir} and environment variables.
package tomlconfig
