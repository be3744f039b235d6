package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/bdo/internal/cli/ui"
	"github.com/conduit-lang/bdo/internal/decorator"
)

// NewModelsCommand creates the models command
func NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the registered classes",
		Long: `List every class registered in the environment with its kind, parent,
collection and fields.

Abstract classes are listed but cannot be constructed.`,
		RunE: runModels,
	}
}

func runModels(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	table := ui.NewTable(cmd.OutOrStdout(), noColor, "CLASS", "KIND", "PARENT", "COLLECTION", "FIELDS")
	for _, c := range rt.Env.Classes() {
		parent := "-"
		if p := c.Parent(); p != nil {
			parent = p.Name()
		}
		collection := "-"
		if c.Has(decorator.TraitModel) {
			collection = c.Database() + ":" + c.Collection()
		}
		table.AddRow(c.Name(), classKind(rt.Env, c), parent, collection, strconv.Itoa(len(c.Names())))
	}
	table.Render()
	return nil
}

// classKind describes a class as model, component or controller, marking
// classes without factory.
func classKind(env *decorator.Env, c *decorator.Class) string {
	var kind []string
	switch {
	case c.Has(decorator.TraitComponent):
		kind = append(kind, "component")
	case c.Has(decorator.TraitController):
		kind = append(kind, "controller")
	case c.Has(decorator.TraitModel):
		kind = append(kind, "model")
	default:
		kind = append(kind, "class")
	}
	if c.Abstract() {
		kind = append(kind, "abstract")
	} else if !env.Provided(c.Name()) {
		kind = append(kind, "base")
	}
	return strings.Join(kind, ", ")
}
