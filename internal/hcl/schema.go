package hcl

// fileRoot decodes one manifest file.
type fileRoot struct {
	SearchPaths []string  `hcl:"search_paths,optional"`
	Require     []string  `hcl:"require,optional"`
	Sources     []*source `hcl:"source,block"`
}

// source is the HCL form of config.Source.
type source struct {
	Kind      string `hcl:"kind,label"`
	Path      string `hcl:"path,optional"`
	Name      string `hcl:"name,optional"`
	Recursive bool   `hcl:"recursive,optional"`
	Optional  bool   `hcl:"optional,optional"`
}
