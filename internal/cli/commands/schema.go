package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/bdo/internal/cli/ui"
)

var schemaFormat string

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [type]",
		Short: "Print the published object types",
		Long: `Print the object types published by model attributes.

The sdl format prints GraphQL type definitions of every type, or of the
named one. The json format prints the JSON Schema of the named type.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSchema,
	}

	cmd.Flags().StringVarP(&schemaFormat, "format", "f", "sdl", "Output format: sdl or json")

	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	schemas := rt.Env.Schemas
	var name string
	if len(args) > 0 {
		name = args[0]
		if _, ok := schemas.Get(name); !ok {
			cmd.PrintErr(ui.UnknownClassError(name, schemas.List(), noColor))
			return fmt.Errorf("unknown type %q", name)
		}
	}

	switch schemaFormat {
	case "sdl":
		if name == "" {
			fmt.Fprint(out, schemas.SDL())
			return nil
		}
		t, _ := schemas.Get(name)
		fmt.Fprint(out, t.SDL())
		return nil
	case "json":
		if name == "" {
			return fmt.Errorf("the json format needs a type, one of %v", schemas.List())
		}
		s, err := schemas.JSONSchema(name)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	default:
		return fmt.Errorf("unknown format %q, use sdl or json", schemaFormat)
	}
}
