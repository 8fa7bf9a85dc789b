package cli

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"workshop-feedback/pkg/clients/assets"
	"workshop-feedback/pkg/render"
)

// localFetcher reads templates from disk and defers anything that looks like
// a URL to the HTTP fetcher.
type localFetcher struct {
	remote render.TemplateFetcher
}

func (f localFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return f.remote.Fetch(ctx, src)
	}
	return os.ReadFile(src)
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		fields   render.Fields
		template string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a certificate to a local PNG without uploading it",
		Example: `  workshop-feedback render --name Asha --workshop "React JS for Beginners" \
      --provider "ABC College" --date 2024-05-01 --out asha.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template == "" {
				template = a.cfg.DefaultTemplateURL()
			}

			r, err := render.New(localFetcher{remote: assets.NewClient(a.cfg.Certificate.FetchTimeout)})
			if err != nil {
				return err
			}

			data, err := r.Render(cmd.Context(), template, fields)
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			img, err := png.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", out, img.Width, img.Height)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&fields.Name, "name", "", "recipient name")
	f.StringVar(&fields.WorkshopName, "workshop", "", "workshop name")
	f.StringVar(&fields.Provider, "provider", "", "issuing college or organisation")
	f.StringVar(&fields.Date, "date", "", "workshop date")
	f.StringVar(&template, "template", "", "template URL or file path (default: configured template)")
	f.StringVarP(&out, "out", "o", "certificate.png", "output file")

	return cmd
}
