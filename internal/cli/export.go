package cli

import (
	"fmt"
	"strings"

	"lockin-cli/internal/export"
	"lockin-cli/internal/render"
	"lockin-cli/internal/store"
	"lockin-cli/internal/template"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type paginationFlag struct {
	value string
}

func (f *paginationFlag) String() string { return f.value }
func (f *paginationFlag) Type() string { return "single|slice" }
func (f *paginationFlag) Set(s string) error {
	p, err := export.ParsePagination(s)
	if err != nil {
		return err
	}
	f.value = string(p)
	return nil
}

func newExportCmd(app *App) *cobra.Command {
	var toDir string
	var variant string
	var scale int
	var open bool
	pag := &paginationFlag{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the plan to " + export.FileName,
		Long: strings.TrimSpace(`
Render the plan (or the template variant) to a PDF.

Pagination:
- single: one A4 page scaled to width; content taller than a page is clipped
- slice:  content is cut into as many A4 pages as needed
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePagination(app, pag.value)
			if err != nil {
				return writeErr(cmd, err)
			}
			dir := strings.TrimSpace(toDir)
			if dir == "" && app.cfg != nil {
				dir = app.cfg.ExportDir
			}
			if dir == "" {
				dir = "."
			}

			region, err := exportRegion(cmd, app, variant)
			if err != nil {
				return writeErr(cmd, err)
			}

			pipeline := export.NewPipeline(app.log())
			res, err := pipeline.Export(cmdContext(cmd), region, region, export.FileSink{Dir: dir}, export.Options{
				Pagination: p,
				Scale:      scale,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			hints := []string{}
			if res.Clipped {
				hints = append(hints, "content was clipped to one page; rerun with --pagination slice")
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s, %d page(s))\n", res.Location, humanize.Bytes(uint64(res.Bytes)), res.Pages)
			if open {
				if err := openPath(res.Location); err != nil {
					hints = append(hints, "failed to open "+res.Location+": "+err.Error())
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":       res.Location,
					"bytes":      res.Bytes,
					"size":       humanize.Bytes(uint64(res.Bytes)),
					"pages":      res.Pages,
					"clipped":    res.Clipped,
					"pagination": p,
				},
				"_hints": hints,
			})
		},
	}
	cmd.Flags().StringVar(&toDir, "to", "", "Output directory (default: config exportDir or current dir)")
	cmd.Flags().StringVar(&variant, "variant", "plan", "What to export (plan|template)")
	cmd.Flags().Var(pag, "pagination", "Pagination policy (single|slice; slice paints one page-height band at a time; default: config pagination or single)")
	cmd.Flags().IntVar(&scale, "scale", export.DefaultScale, "Raster scale factor (minimum 2)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the PDF after writing it")
	return cmd
}

type exportView interface {
	export.Region
	export.Controls
}

func exportRegion(cmd *cobra.Command, app *App, variant string) (exportView, error) {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "", "plan":
		s, err := openStore(cmd, app)
		if err != nil {
			return nil, err
		}
		return render.NewPlanView(s.Snapshot()), nil
	case "template":
		t, err := openTemplate(cmd, app)
		if err != nil {
			return nil, err
		}
		prefs, err := store.LoadPrefs(app.Dir)
		if err != nil {
			return nil, err
		}
		colors, err := template.NormalizeColors(prefs.Colors)
		if err != nil {
			return nil, err
		}
		return render.NewTemplateView(t.Template(), colors), nil
	default:
		return nil, fmt.Errorf("invalid --variant %q (expected plan|template)", variant)
	}
}
