package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestJSON bool

type ingestResult struct {
	DocumentId string `json:"document_id"`
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks_indexed"`
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Upload and index documents",
	Long: `Copies each file into document storage, extracts and chunks it, then embeds the
chunks into the vector index. Supported: pdf, docx, odt, rtf, xlsx, pptx and plain text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	results := make([]ingestResult, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		doc, err := a.Documents.Save(ctx, filepath.Base(path), "", f)
		f.Close()
		if err != nil {
			return fmt.Errorf("storing %s: %w", path, err)
		}

		chunks, err := a.Pipeline.ProcessDocument(ctx, doc.Id, nil)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		results = append(results, ingestResult{DocumentId: doc.Id, Filename: doc.Filename, Chunks: chunks})
	}

	if ingestJSON {
		return printJSON(cmd, results)
	}
	for _, r := range results {
		cmd.Printf("%s  %s  %d chunks\n", r.DocumentId, r.Filename, r.Chunks)
	}
	return nil
}
