package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/format"
	"github.com/dhamidi/gdoc/store"
)

func newDocCmd(g *globals) *cobra.Command {
	var sqlitePath string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "doc <class> [member]",
		Short: "Show documentation for a class or one of its members",
		Long: `Show documentation for a class or one of its members.

The class can be given as a full path (com/example/Person), a dotted name
(com.example.Person) or a simple name (Person). The model comes from the
SQLite database given with --db, or from scanning the configured root.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.SQLite = sqlitePath
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = outputFormat
			}

			var model *doc.Model
			if cfg.SQLite != "" {
				model, err = loadModel(cmd.Context(), cfg.SQLite)
			} else {
				var errs []error
				model, errs, err = scanModel(cmd.Context(), cfg)
				for _, e := range errs {
					log.Warningf("%s", e)
				}
			}
			if err != nil {
				return err
			}

			member := ""
			if len(args) == 2 {
				member = args[1]
			}
			return showDoc(os.Stdout, model, args[0], member, cfg.Format)
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "db", "", "read the model from this SQLite database")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (json, yaml, line, text)")

	return cmd
}

func loadModel(ctx context.Context, path string) (*doc.Model, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	model, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return model, nil
}

func showDoc(w io.Writer, model *doc.Model, name, member, formatName string) error {
	cls := findClass(model, name)
	if cls == nil {
		return fmt.Errorf("class %s not found", name)
	}
	if member != "" {
		cls = onlyMember(cls, member)
		if cls == nil {
			return fmt.Errorf("%s has no member %s", name, member)
		}
	}

	enc, err := format.ForName(formatName, w)
	if err != nil {
		return err
	}
	single := doc.NewModel()
	single.Put(cls)
	return enc.Encode(single)
}

// findClass resolves a full path first and falls back to the simple name.
// Ambiguous simple names resolve to the smallest path.
func findClass(model *doc.Model, name string) *doc.ClassDoc {
	if cls, ok := model.Get(doc.Canonical(name)); ok {
		return cls
	}
	simple := name
	if i := strings.LastIndexAny(simple, "./"); i >= 0 {
		simple = simple[i+1:]
	}
	for _, cls := range model.Classes() {
		if cls.Name == simple {
			return cls
		}
	}
	return nil
}

// onlyMember returns a copy of cls holding just the members called name,
// or nil when there are none.
func onlyMember(cls *doc.ClassDoc, name string) *doc.ClassDoc {
	out := *cls
	out.Fields, out.Properties, out.Methods, out.Constructors = nil, nil, nil, nil
	for _, f := range cls.Fields {
		if f.Name == name {
			out.AddField(f)
		}
	}
	for _, p := range cls.Properties {
		if p.Name == name {
			out.AddProperty(p)
		}
	}
	for _, m := range cls.Methods {
		if m.Name == name {
			out.AddMethod(m)
		}
	}
	for _, c := range cls.Constructors {
		if c.Name == name {
			out.AddConstructor(c)
		}
	}
	if len(out.Fields)+len(out.Properties)+len(out.Methods)+len(out.Constructors) == 0 {
		return nil
	}
	return &out
}
