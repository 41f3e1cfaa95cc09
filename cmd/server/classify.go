package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/Brownie44l1/agro-api/internal/model"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:       "classify <disease|species> <image>",
	Short:     "Classify one image file and print the scores",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{model.DiseaseModelName, model.SpeciesModelName},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg, logger, true)
		if err != nil {
			return err
		}
		defer a.Close()

		var c *model.Classifier
		switch args[0] {
		case model.DiseaseModelName:
			c = a.models.Disease
		case model.SpeciesModelName:
			c = a.models.Species
		default:
			return fmt.Errorf("unknown model %q, expected %s or %s", args[0], model.DiseaseModelName, model.SpeciesModelName)
		}
		if c == nil {
			return fmt.Errorf("%s: %w", args[0], model.ErrModelUnavailable)
		}

		file, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer file.Close()

		start := time.Now()
		result, err := c.Classify(cmd.Context(), file)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Prediction: %s (%.4f) in %s\n", result.Class, result.Confidence, time.Since(start))

		top, _ := cmd.Flags().GetInt("top")
		for _, label := range topLabels(result.Predictions, top) {
			fmt.Fprintf(out, "- %s: %.4f\n", label, result.Predictions[label])
		}
		return nil
	},
}

// topLabels returns up to n labels by descending score.
func topLabels(scores map[string]float32, n int) []string {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if scores[labels[i]] == scores[labels[j]] {
			return labels[i] < labels[j]
		}
		return scores[labels[i]] > scores[labels[j]]
	})
	if n >= 0 && n < len(labels) {
		labels = labels[:n]
	}
	return labels
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Int("top", 3, "Number of scores to print, -1 for all")
}
