package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrid/pkg/document"
	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/scene"
	"github.com/matzehuels/mindgrid/pkg/ttd"
)

func (c *CLI) importCommand() *cobra.Command {
	var (
		docPath string
		fromTTD bool
	)

	cmd := &cobra.Command{
		Use:   "import <elements.json|diagram.txt>",
		Short: "Import foreign canvas elements into a document",
		Long: `Import reads a JSON array of canvas elements produced by another tool,
regenerates their identifiers so they never collide with existing content,
and commits them into the document centered and fitted to view.

With --ttd the input is diagram definition text (e.g. the output of the
diagram command) instead of element JSON; it is parsed by the built-in
flowchart parser, retrying once with sanitized text on failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeNotFound, err, "read %s", args[0])
			}

			var (
				imported []*scene.Element
				files    map[string][]byte
			)
			if fromTTD {
				adapter := ttd.NewAdapter(ttd.NewFlowchartParser())
				imported, files, err = adapter.Convert(cmd.Context(), string(data))
				if err != nil {
					return err
				}
			} else {
				var elements []*scene.Element
				if err := json.Unmarshal(data, &elements); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse elements from %s", args[0])
				}
				if len(elements) == 0 {
					return errors.New(errors.ErrCodeInvalidInput, "%s contains no elements", args[0])
				}
				imported = scene.ImportForeign(elements)
			}

			doc, err := document.Load(docPath)
			if errors.Is(err, errors.ErrCodeNotFound) {
				doc = document.New()
			} else if err != nil {
				return err
			}
			doc.InsertElements(imported, files)
			if err := doc.Save(docPath); err != nil {
				return err
			}

			printSuccess("Imported %d elements", len(imported))
			printFile(docPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "mindgrid.json", "document file to import into")
	cmd.Flags().BoolVar(&fromTTD, "ttd", false, "treat the input as diagram definition text")
	return cmd
}
