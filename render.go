package main

import (
	"fmt"
	"os"
	"path/filepath"

	"DatePlanBot/document"
	"DatePlanBot/model"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	renderAnswersPath string
	renderOutDir      string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a date plan PDF from an answers file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := renderAnswers(renderAnswersPath, renderOutDir)
		if err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("plan written")
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderAnswersPath, "answers", "", "YAML file with the wizard answers")
	renderCmd.Flags().StringVar(&renderOutDir, "out", ".", "directory to write the PDF to")
	_ = renderCmd.MarkFlagRequired("answers")
}

// renderAnswers writes the plan for the answers in path to outDir and
// returns the file written.
func renderAnswers(path, outDir string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading answers: %w", err)
	}
	var a model.Answers
	if err := yaml.Unmarshal(raw, &a); err != nil {
		return "", fmt.Errorf("error parsing answers %s: %w", path, err)
	}

	inv, err := document.Render(a)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating %s: %w", outDir, err)
	}
	out := filepath.Join(outDir, filepath.Base(inv.FileName))
	if err := os.WriteFile(out, inv.Data, 0o644); err != nil {
		return "", fmt.Errorf("error writing plan: %w", err)
	}
	return out, nil
}
