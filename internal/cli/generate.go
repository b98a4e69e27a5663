package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrid/pkg/document"
	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/pipeline"
	"github.com/matzehuels/mindgrid/pkg/prompts"
)

func (c *CLI) generateCommand() *cobra.Command {
	var (
		language    string
		theme       string
		formats     string
		out         string
		docPath     string
		scale       float64
		noCache     bool
		refresh     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate a mindmap from a prompt",
		Long: `Generate asks the upstream AI service for a mindmap tree, lays it out,
and exports the requested artifacts. With no prompt argument, the last
prompt used is reused.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			store, err := prompts.NewStore("")
			if err != nil {
				return err
			}

			prompt := ""
			if len(args) > 0 {
				prompt = strings.TrimSpace(args[0])
			}
			if prompt == "" {
				if prompt, err = store.Last(); err != nil {
					return err
				}
				if prompt == "" {
					return errors.New(errors.ErrCodeInvalidInput, "no prompt given and no previous prompt stored")
				}
				printInfo("reusing last prompt: %q", prompt)
			}

			if interactive {
				if theme, err = pickTheme(); err != nil {
					return err
				}
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			runner.Generator = c.newGenerator(cfg, runner.Cache)

			spinner := newSpinnerWithContext(ctx, "Generating mindmap...")
			spinner.Start()
			result, err := runner.Execute(ctx, pipeline.Options{
				Prompt:   prompt,
				Language: language,
				Theme:    theme,
				Formats:  parseFormats(formats),
				Scale:    scale,
				Refresh:  refresh,
				Logger:   c.Logger,
			})
			if err != nil {
				spinner.StopWithError(errors.UserMessage(err))
				if spinner.Cancelled() {
					return ctx.Err()
				}
				return err
			}
			spinner.Stop()

			// Only successful generations update the slot.
			if err := store.SetLast(prompt); err != nil {
				printWarning("could not store prompt: %v", err)
			}

			printSuccess("Generated %q", result.Root.Topic)
			printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.TreeHit)
			if rl := result.RateLimit; rl != nil && rl.Remaining >= 0 {
				printDetail("quota: %d/%d requests remaining", rl.Remaining, rl.Limit)
			}

			if err := writeArtifacts(out, slugify(prompt), result.Artifacts); err != nil {
				return err
			}

			if docPath != "" {
				if err := commitToDocument(docPath, result); err != nil {
					return err
				}
				printFile(docPath)
			} else {
				printNextStep("Commit into a document", appName+" generate --doc mindgrid.json")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "response language hint (e.g. en, de)")
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "theme: default, warm, or cool")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats (svg,png,pdf,json,dot,dot-svg)")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&docPath, "doc", "", "document file to commit the elements into")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "raster scale factor for PNG")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the local cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the theme interactively")

	return cmd
}

func (c *CLI) diagramCommand() *cobra.Command {
	var (
		language string
		out      string
		noCache  bool
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "diagram <prompt>",
		Short: "Generate diagram definition text from a prompt",
		Long: `Diagram asks the upstream AI service for diagram definition text (a
flowchart DSL) instead of a mindmap tree. The text is printed to stdout or
written to --out for feeding into a text-to-diagram parser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			backend, err := newCache(noCache)
			if err != nil {
				return err
			}
			gen := c.newGenerator(cfg, backend)

			p := newProgress(c.Logger)
			res, err := gen.GenerateDiagram(ctx, args[0], language, refresh)
			if err != nil {
				return err
			}
			p.done("generated diagram definition")

			if out == "" {
				fmt.Println(res.Generated)
				return nil
			}
			if err := os.WriteFile(out, []byte(res.Generated), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
			}
			printFile(out)
			printNextStep("Import into a document", appName+" import --ttd "+out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "response language hint")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the definition to a file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the local cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")

	return cmd
}

// writeArtifacts writes each artifact as <dir>/<base>.<format>.
func writeArtifacts(dir, base string, artifacts map[string][]byte) error {
	if len(artifacts) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}
	for _, format := range []string{
		pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF,
		pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatDOTSVG,
	} {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		ext := format
		if format == pipeline.FormatDOTSVG {
			ext = "dot.svg"
		}
		path := filepath.Join(dir, base+"."+ext)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		printFile(path)
	}
	return nil
}

// commitToDocument inserts the result's elements into a document file,
// creating it when absent.
func commitToDocument(path string, result *pipeline.Result) error {
	doc, err := document.Load(path)
	if errors.Is(err, errors.ErrCodeNotFound) {
		doc = document.New()
	} else if err != nil {
		return err
	}
	doc.InsertElements(result.Elements, nil)
	return doc.Save(path)
}

// slugify turns a prompt into a safe file base name.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "mindmap"
	}
	if len(out) > 48 {
		out = strings.TrimSuffix(out[:48], "-")
	}
	return out
}
