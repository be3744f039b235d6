package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/bdo/internal/cli/ui"
	"github.com/conduit-lang/bdo/internal/i18n"
	"github.com/conduit-lang/bdo/internal/model"
	"github.com/conduit-lang/bdo/internal/models"
	"github.com/conduit-lang/bdo/internal/nsstorage"
)

// NewDemoCommand creates the demo command
func NewDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Save, reload and translate the sample models",
		Long: `Run the sample models against the configured stores:

  1. create a Test1 model, fill its tester list and save it
  2. create an Artifact referencing the Test1 model and save it
  3. change the Test1 title and list the unsaved changes
  4. reload the Artifact in a fresh environment, resolving its creator
  5. translate a greeting of the TestComponent`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runDemo(cmd.Context(), rt, cmd.OutOrStdout())
		},
	}
}

func runDemo(ctx context.Context, rt *Runtime, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	env := rt.Env

	ui.Header(w, "Saving models", noColor)
	test, err := models.NewTest1(env, map[string]any{"id": "demo-test", "title": "hello"})
	if err != nil {
		return fmt.Errorf("failed to create Test1: %w", err)
	}
	test.Tester().Push("alpha", "beta")
	changes, err := test.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to save Test1: %w", err)
	}
	ui.WriteSuccess(w, fmt.Sprintf("saved %s (%s)", test.ReferenceString(), keys(changes)), noColor)

	artifact, err := models.NewArtifact(env, map[string]any{"id": "demo-artifact", "name": "hammer", "creator": test})
	if err != nil {
		return fmt.Errorf("failed to create Artifact: %w", err)
	}
	if _, err := artifact.Save(ctx); err != nil {
		return fmt.Errorf("failed to save Artifact: %w", err)
	}
	ui.WriteSuccess(w, "saved "+artifact.ReferenceString(), noColor)

	if err := test.Set("title", "changed"); err != nil {
		return err
	}
	unsaved, err := test.GetUnsavedChanges(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute unsaved changes: %w", err)
	}
	fmt.Fprintf(w, "unsaved changes of %s: %s\n\n", test.ID(), keys(unsaved))

	ui.Header(w, "Reloading", noColor)
	fresh, err := rt.NewEnv(ctx, nsstorage.NewMemoryBackend())
	if err != nil {
		return err
	}
	loaded, err := model.GetInstanceByID(ctx, fresh, models.ArtifactClass, "demo-artifact")
	if err != nil {
		return fmt.Errorf("failed to load Artifact: %w", err)
	}
	reloaded, ok := loaded.(*models.Artifact)
	if !ok {
		return fmt.Errorf("nothing stored under demo-artifact")
	}
	table := ui.NewTable(w, noColor, "FIELD", "VALUE")
	table.AddRow("name", fmt.Sprint(reloaded.Get("name")))
	if creator, ok := reloaded.Creator().(*models.Test1); ok {
		table.AddRow("creator", creator.ReferenceString())
		table.AddRow("creator.title", creator.Title())
		table.AddRow("creator.tester", fmt.Sprint(creator.Tester().Values()))
	}
	table.Render()
	fmt.Fprintln(w)

	ui.Header(w, "Translating", noColor)
	if tr, ok := env.Translator.(*i18n.Memory); ok {
		tr.AddResources(tr.Language(), models.TestComponentClass.Name(), map[string]string{
			"greeting": "Hello {{name}}, this is {{test}}",
		})
	}
	component, err := models.NewTestComponent(env, nil)
	if err != nil {
		return fmt.Errorf("failed to create TestComponent: %w", err)
	}
	defer component.Remove()
	fmt.Fprintln(w, component.Translation("greeting", map[string]any{"name": "demo", "test": component.Get("test")}))
	return nil
}

func keys(m map[string]any) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
