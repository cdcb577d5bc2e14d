package cli

import (
	"fmt"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/project"
	"github.com/spf13/cobra"
)

var (
	projectName          string
	projectDescription   string
	projectScope         string
	projectDocs          string
	projectQuestionnaire string
	projectJSON          bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Questionnaire project commands",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project from a questionnaire file",
	Long: `Parses the questionnaire into questions, one per non-empty line. Lines starting
with "Section:" or "#" set the section of the questions below them.

Examples:
  qactl project create --name "Vendor review" --questionnaire questions.txt
  qactl project create --name "SOC2" --scope SELECTED_DOCS --docs id1,id2 --questionnaire soc2.xlsx`,
	Args: cobra.NoArgs,
	RunE: runProjectCreate,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "project name")
	projectCreateCmd.Flags().StringVar(&projectDescription, "description", "", "project description")
	projectCreateCmd.Flags().StringVar(&projectScope, "scope", "ALL_DOCS", "ALL_DOCS or SELECTED_DOCS")
	projectCreateCmd.Flags().StringVar(&projectDocs, "docs", "", "comma separated document ids for SELECTED_DOCS")
	projectCreateCmd.Flags().StringVarP(&projectQuestionnaire, "questionnaire", "q", "", "questionnaire file")
	_ = projectCreateCmd.MarkFlagRequired("name")
	_ = projectCreateCmd.MarkFlagRequired("questionnaire")
	projectCmd.PersistentFlags().BoolVar(&projectJSON, "json", false, "output as JSON")

	projectCmd.AddCommand(projectCreateCmd, projectListCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectCreate(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	in := project.CreateInput{
		Name:              projectName,
		Scope:             strings.ToUpper(projectScope),
		DocumentIds:       project.SplitIds(projectDocs),
		QuestionnairePath: projectQuestionnaire,
	}
	if projectDescription != "" {
		in.Description = &projectDescription
	}

	p, questions, err := a.Projects.Create(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	if projectJSON {
		return printJSON(cmd, map[string]any{"project": p, "questions_created": len(questions)})
	}
	cmd.Printf("Created project %s (%s) with %d questions\n", p.Id, p.Name, len(questions))
	return nil
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	projects, err := a.Projects.List(cmd.Context())
	if err != nil {
		return err
	}
	if projectJSON {
		return printJSON(cmd, projects)
	}
	if len(projects) == 0 {
		cmd.Println("No projects.")
		return nil
	}
	for _, p := range projects {
		cmd.Printf("%s  %-10s  %-13s  %s\n", p.Id, p.Status, p.Scope, p.Name)
	}
	return nil
}
