package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/pipeline"
)

func (c *CLI) renderCommand() *cobra.Command {
	var (
		theme   string
		formats string
		out     string
		docPath string
		scale   float64
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "render <tree.json>",
		Short: "Render a mindmap tree file into artifacts",
		Long: `Render reads a mindmap tree from a JSON file ({"topic": ..., "children":
[...]}), clamps and lays it out, and exports the requested artifacts without
contacting the upstream service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeNotFound, err, "read %s", args[0])
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}

			p := newProgress(c.Logger)
			result, err := runner.Execute(ctx, pipeline.Options{
				TreeJSON: string(data),
				Theme:    theme,
				Formats:  parseFormats(formats),
				Scale:    scale,
				Refresh:  refresh,
				Logger:   c.Logger,
			})
			if err != nil {
				return err
			}
			p.done("rendered tree")

			printSuccess("Rendered %q", result.Root.Topic)
			printStats(result.Stats.NodeCount, result.Stats.EdgeCount,
				result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)

			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			if err := writeArtifacts(out, base, result.Artifacts); err != nil {
				return err
			}

			if docPath != "" {
				if err := commitToDocument(docPath, result); err != nil {
					return err
				}
				printFile(docPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&theme, "theme", "t", "", "theme: default, warm, or cool")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats (svg,png,pdf,json,dot,dot-svg)")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&docPath, "doc", "", "document file to commit the elements into")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "raster scale factor for PNG")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the local cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")

	return cmd
}
