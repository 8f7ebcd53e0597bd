package codegen

// File is one emitted (or, in ModeListOutputs, merely named) output
// file.
type File struct {
	// Name is a slash-separated path relative to the output directory
	// passed to the caller, e.g. "example/com/catalog/catalog_gen.go".
	Name string
	// Source is the formatted Go source for Name. It is nil when the
	// Config's Mode is ModeListOutputs, per spec.md section 4.13's
	// fourth mode: "enumerates the filenames ... without writing
	// anything".
	Source []byte
}

// Output is the result of one Generate call: every file codegen would
// write, in stable, deterministic order (packages in packageOrder's
// dependency order, then schema registration order within a package,
// then declaration order within a schema) so that generating the same
// schema set twice yields byte-identical results, per spec.md section
// 8's determinism property.
type Output struct {
	Files []File
}
