package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"lockin-cli/internal/store"
	"lockin-cli/internal/template"
	"lockin-cli/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the plan editor as a local web UI",
		Long: strings.TrimSpace(`
Serve the plan and template editors from a local HTTP server.

Pages are server-rendered; open tabs update live over a server-sent event
stream when the plan changes. GET /export.pdf downloads the rendered plan.
`),
		Example: strings.TrimSpace(`
# Serve on localhost and open a browser
lockin web

# Bind a different port without opening a browser
lockin web --addr :8080 --open=false
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}
			slot, dir, err := openSlot(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			pag, err := resolvePagination(app, "")
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx := cmdContext(cmd)
			log := app.log()
			srv, err := web.NewServer(web.ServerConfig{
				Addr:       listenAddr,
				Dir:        dir,
				Plan:       store.Open(ctx, slot, store.WithLogger(log)),
				Template:   template.Open(ctx, slot, template.WithLogger(log)),
				Pagination: pag,
				Log:        log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"dir":       dir,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "lockin web running at %s\n", url)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}
			log.Info().Str("addr", actualAddr).Str("dir", dir).Msg("web server started")

			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3335", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", true, "Open the UI in your default browser")
	return cmd
}
