package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/model"
	"lockin-cli/internal/publish"
	"lockin-cli/internal/store"
	"lockin-cli/internal/template"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tpl"},
		Short:   "Edit the fixed-slot template variant",
	}
	cmd.AddCommand(newTemplateShowCmd(app))
	cmd.AddCommand(newTemplateFieldsCmd(app))
	cmd.AddCommand(newTemplateSetCmd(app))
	cmd.AddCommand(newTemplateItemsCmd(app))
	cmd.AddCommand(newTemplateColorsCmd(app))
	cmd.AddCommand(newTemplateImportCmd(app))
	cmd.AddCommand(newTemplateExportCmd(app))
	cmd.AddCommand(newTemplateResetCmd(app))
	return cmd
}

func newTemplateShowCmd(app *App) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTemplate(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if markdown {
				_, err := fmt.Fprint(cmd.OutOrStdout(), publish.RenderTemplateMarkdown(t.Template()))
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": t.Template()})
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print Markdown instead of structured output")
	return cmd
}

func newTemplateFieldsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List editable field names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{
				"data":   template.Fields,
				"_hints": []string{"card items: " + template.ItemField(template.BlockA, 1, 1)},
			})
		},
	}
}

func newTemplateSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <text>",
		Short: "Set a template field (empty text becomes \"" + template.FallbackText + "\")",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTemplate(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			field := strings.TrimSpace(args[0])
			value := editfield.Resolve(strings.Join(args[1:], " "), template.FallbackText)
			if err := t.SetField(field, value); err != nil {
				return writeErr(cmd, err)
			}
			if err := checkPersisted(t.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"field": field, "value": value}})
		},
	}
}

func newTemplateItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Add, edit or remove card items (cards and items are 1-based)",
	}

	parseCard := func(blockArg, cardArg string) (template.BlockRef, int, error) {
		ref, err := template.ParseBlockRef(blockArg)
		if err != nil {
			return "", 0, err
		}
		n, err := strconv.Atoi(cardArg)
		if err != nil {
			return "", 0, fmt.Errorf("invalid card %q", cardArg)
		}
		return ref, n, nil
	}

	addCmd := &cobra.Command{
		Use:   "add <a|b> <card> <text>",
		Short: "Append an item to a card",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, cardN, err := parseCard(args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			text := strings.TrimSpace(strings.Join(args[2:], " "))
			if text == "" {
				return writeErr(cmd, errMissingText)
			}
			t, err := openTemplate(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !t.AddItem(ref, cardN, text) {
				return writeErr(cmd, errNotFound("card", fmt.Sprintf("%s.card%d", ref, cardN)))
			}
			if err := checkPersisted(t.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cardOf(t.Template(), ref, cardN)})
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <a|b> <card> <item> <text>",
		Short: "Replace an item's text",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, cardN, err := parseCard(args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			itemN, err := strconv.Atoi(args[2])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid item %q", args[2]))
			}
			t, err := openTemplate(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			text := editfield.Resolve(strings.Join(args[3:], " "), template.FallbackText)
			if !t.EditItem(ref, cardN, itemN, text) {
				return writeErr(cmd, errNotFound("item", template.ItemField(ref, cardN, itemN)))
			}
			if err := checkPersisted(t.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cardOf(t.Template(), ref, cardN)})
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <a|b> <card> <item>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, cardN, err := parseCard(args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			itemN, err := strconv.Atoi(args[2])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid item %q", args[2]))
			}
			t, err := openTemplate(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !t.DeleteItem(ref, cardN, itemN) {
				return writeErr(cmd, errNotFound("item", template.ItemField(ref, cardN, itemN)))
			}
			if err := checkPersisted(t.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cardOf(t.Template(), ref, cardN)})
		},
	}

	cmd.AddCommand(addCmd, editCmd, rmCmd)
	return cmd
}

func cardOf(t model.Template, ref template.BlockRef, n int) model.TemplateCard {
	b := t.BlockA
	if ref == template.BlockB {
		b = t.BlockB
	}
	if n < 1 || n > len(b.Cards) {
		return model.TemplateCard{}
	}
	return b.Cards[n-1]
}

func newTemplateColorsCmd(app *App) *cobra.Command {
	var primary, background string
	var reset bool

	cmd := &cobra.Command{
		Use:   "colors",
		Short: "Show or set the template colors (presentation only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			prefs, err := store.LoadPrefs(dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := prefs.Colors
			if reset {
				c = template.DefaultColors()
			}
			if cmd.Flags().Changed("primary") {
				c.Primary = primary
			}
			if cmd.Flags().Changed("background") {
				c.Background = background
			}
			c, err = template.NormalizeColors(c)
			if err != nil {
				return writeErr(cmd, err)
			}
			if reset || cmd.Flags().Changed("primary") || cmd.Flags().Changed("background") {
				prefs.Colors = c
				if err := store.SavePrefs(dir, prefs); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().StringVar(&primary, "primary", "", "Primary color (hex, e.g. #005792)")
	cmd.Flags().StringVar(&background, "background", "", "Card background color (hex, e.g. #E8F6FF)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Restore default colors")
	return cmd
}

func newTemplateImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Replace the template with a TOML file (missing keys keep default text)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			defer f.Close()
			tpl, err := template.ImportTOML(f)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := openTemplate(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t.Replace(tpl)
			if err := checkPersisted(t.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t.Template()})
		},
	}
}

func newTemplateExportCmd(app *App) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the template as TOML (stdout unless --to)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTemplate(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var buf bytes.Buffer
			if err := template.ExportTOML(&buf, t.Template()); err != nil {
				return writeErr(cmd, err)
			}
			to = strings.TrimSpace(to)
			if to == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := atomic.WriteFile(to, &buf); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"written": to}})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output file")
	return cmd
}

func newTemplateResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default template text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTemplate(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t.Reset()
			if err := checkPersisted(t.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t.Template()})
		},
	}
}
