// Package hcl provides the HCL implementation of config.Loader.
//
// A manifest file looks like this:
//
//	search_paths = ["${manifest_dir}/plugins"]
//	require      = ["exposing.print.Printer"]
//
//	source "name" {
//	  name = "print"
//	}
//
//	source "directory" {
//	  path      = env.EXPOSING_PLUGIN_DIR
//	  recursive = true
//	  optional  = true
//	}
//
// Expressions may reference env.<NAME> for environment variables and
// manifest_dir for the directory of the file being read. Relative paths are
// resolved against manifest_dir.
package hcl
