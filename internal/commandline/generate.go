package commandline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"xb.dev/xb/codegen"
	"xb.dev/xb/dtdfrontend"
	"xb.dev/xb/im"
	"xb.dev/xb/rng"
	"xb.dev/xb/rng/compact"
	"xb.dev/xb/rng/simplify"
	"xb.dev/xb/rng/translate"
	"xb.dev/xb/xmlevent"
	"xb.dev/xb/xsdfrontend"
)

func newGenerateCommand() *cobra.Command {
	var (
		outDir      string
		typemapPath string
		nsFlags     []string
		headerOnly  bool
		filePerType bool
		listOutputs bool
	)

	cmd := &cobra.Command{
		Use:   "generate <schema...> [flags]",
		Short: "Generate typed Go data bindings from one or more schema documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGenerate(args, outDir, typemapPath, nsFlags, headerOnly, filePerType, listOutputs)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&typemapPath, "typemap", "t", "", "type-map override file")
	cmd.Flags().StringArrayVarP(&nsFlags, "namespace", "n", nil, "namespace mapping uri=go/import/path (repeatable)")
	cmd.Flags().BoolVar(&headerOnly, "header-only", false, "emit declarations only, no parse/serialize methods")
	cmd.Flags().BoolVar(&filePerType, "file-per-type", false, "emit one file per generated type plus an umbrella file")
	cmd.Flags().BoolVar(&listOutputs, "list-outputs", false, "list the files generation would produce, without writing them")

	return cmd
}

func runGenerate(files []string, outDir, typemapPath string, nsFlags []string, headerOnly, filePerType, listOutputs bool) error {
	if headerOnly && filePerType {
		return Usagef("--header-only and --file-per-type are mutually exclusive")
	}

	set := im.NewSet()
	for _, name := range files {
		schema, err := parseSchemaFile(name)
		if err != nil {
			return err
		}
		set.AddSchema(schema)
	}
	if err := set.Resolve(); err != nil {
		return ParseErrorf("resolve: %v", err)
	}

	var opts []codegen.Option
	for _, ns := range nsFlags {
		uri, path, ok := strings.Cut(ns, "=")
		if !ok {
			return Usagef("invalid -n value %q, expected uri=path", ns)
		}
		opts = append(opts, codegen.Namespace(uri, path))
	}
	if typemapPath != "" {
		tm, err := loadTypeMap(typemapPath)
		if err != nil {
			return err
		}
		opts = append(opts, codegen.WithTypeMap(tm))
	}
	switch {
	case listOutputs:
		opts = append(opts, codegen.OutputMode(codegen.ModeListOutputs))
	case headerOnly:
		opts = append(opts, codegen.OutputMode(codegen.ModeSingleFile))
	case filePerType:
		opts = append(opts, codegen.OutputMode(codegen.ModeFilePerType))
	}

	cfg := codegen.NewConfig(opts...)
	out, err := cfg.Generate(set)
	if err != nil {
		return CodegenErrorf("%v", err)
	}

	for _, f := range out.Files {
		if listOutputs {
			os.Stdout.WriteString(filepath.Join(outDir, f.Name) + "\n")
			continue
		}
		path := filepath.Join(outDir, f.Name)
		if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
			return IOErrorf("create output directory: %v", err)
		}
		if err := os.WriteFile(path, f.Source, 0o666); err != nil {
			return IOErrorf("write %s: %v", path, err)
		}
	}
	return nil
}

func loadTypeMap(path string) (codegen.TypeMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IOErrorf("open typemap %s: %v", path, err)
	}
	defer f.Close()
	tm, err := codegen.LoadTypeMapOverrides(xmlevent.NewReader(f), codegen.DefaultTypeMap())
	if err != nil {
		return nil, ParseErrorf("typemap %s: %v", path, err)
	}
	return tm, nil
}

// parseSchemaFile dispatches to the right frontend by file extension:
// .xsd for XSD, .dtd for DTDs, .rng for RELAX NG XML syntax, .rnc for
// RELAX NG compact syntax. RELAX NG input additionally runs through
// the simplifier and the RELAX NG-to-IM translator before it becomes
// an im.Schema, since unlike the XSD and DTD frontends it does not
// produce one directly.
func parseSchemaFile(name string) (*im.Schema, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, IOErrorf("read %s: %v", name, err)
	}
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xsd":
		schema, err := xsdfrontend.Parse(xmlevent.NewReader(strings.NewReader(string(data))))
		if err != nil {
			return nil, ParseErrorf("%s: %v", name, err)
		}
		return schema, nil
	case ".dtd":
		doc, err := dtdfrontend.Parse(strings.NewReader(string(data)))
		if err != nil {
			return nil, ParseErrorf("%s: %v", name, err)
		}
		return dtdfrontend.Translate(doc), nil
	case ".rng":
		g, err := rng.ParseXML(xmlevent.NewReader(strings.NewReader(string(data))))
		if err != nil {
			return nil, ParseErrorf("%s: %v", name, err)
		}
		return simplifyAndTranslate(g, name)
	case ".rnc":
		g, err := compact.Parse(data)
		if err != nil {
			return nil, ParseErrorf("%s: %v", name, err)
		}
		return simplifyAndTranslate(g, name)
	default:
		return nil, Usagef("%s: unrecognized schema file extension %q", name, ext)
	}
}

func simplifyAndTranslate(g *rng.Grammar, name string) (*im.Schema, error) {
	simplified, err := simplify.Simplify(g, nil, nil)
	if err != nil {
		return nil, ParseErrorf("%s: simplify: %v", name, err)
	}
	schema, err := translate.ToSchema(simplified, "")
	if err != nil {
		return nil, ParseErrorf("%s: translate: %v", name, err)
	}
	return schema, nil
}
