package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	groundTruthFile string
	evaluateJSON    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [project-id]",
	Short: "Score AI answers against reference answers",
	Long: `Compares every AI answer with a human reference answer. The score blends
embedding similarity (70%) with keyword overlap (30%).

The ground truth file is JSON or YAML, either a list of
  {question_id: ..., answer_text: ...}
items or a map from question id to answer text.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&groundTruthFile, "ground-truth", "g", "", "ground truth file (.json, .yaml or .yml)")
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "output the evaluation as JSON")
	_ = evaluateCmd.MarkFlagRequired("ground-truth")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	truth, err := loadGroundTruth(groundTruthFile)
	if err != nil {
		return err
	}

	eval, err := a.Evaluator.Evaluate(cmd.Context(), args[0], truth)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	if evaluateJSON {
		return printJSON(cmd, eval)
	}

	cmd.Printf("Evaluation %s: %s\n", eval.Id, eval.Status)
	if eval.Metrics == nil {
		return nil
	}
	agg := eval.Metrics.Aggregate
	cmd.Printf("overall %.3f  semantic %.3f  keyword %.3f\n", agg.OverallScore, agg.SemanticSimilarityAvg, agg.KeywordOverlapAvg)
	for _, q := range eval.Metrics.PerQuestion {
		cmd.Printf("  %s  %.3f\n", q.QuestionId, q.Score)
	}
	return nil
}

// loadGroundTruth reads a list of items or a plain id to text map.
func loadGroundTruth(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ground truth: %w", err)
	}

	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		unmarshal = json.Unmarshal
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("ground truth must be .json, .yaml or .yml, got %q", filepath.Ext(path))
	}

	var items []projectModel.GroundTruthItem
	if err := unmarshal(data, &items); err == nil {
		return projectModel.GroundTruthMap(items), nil
	}
	var byId map[string]string
	if err := unmarshal(data, &byId); err != nil {
		return nil, fmt.Errorf("parsing ground truth %s: %w", path, err)
	}
	return byId, nil
}
