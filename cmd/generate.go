package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutiful/papergen/internal/service"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a practice paper and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topics")
		count, _ := cmd.Flags().GetInt("count")
		subject, _ := cmd.Flags().GetString("subject")
		grade, _ := cmd.Flags().GetString("grade")
		out, _ := cmd.Flags().GetString("out")
		dist, _ := cmd.Flags().GetStringToInt("dist")
		verbose, _ := cmd.Flags().GetBool("verbose")

		log, err := buildLogger(verbose)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		d, err := buildDeps(ctx, cmd, log)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.service.GeneratePaper(ctx, service.Request{
			Subject:      subject,
			Grade:        grade,
			Topics:       topics,
			Count:        count,
			Distribution: dist,
		})
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("encode paper: %w", err)
		}

		if out != "" {
			if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write paper: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %d questions to %s\n", p.TotalQuestions, out)
			return nil
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringSliceP("topics", "t", nil, "Topics to cover (default: the standard PSLE distribution)")
	generateCmd.Flags().IntP("count", "n", 0, "Number of questions (default 30)")
	generateCmd.Flags().String("subject", "mathematics", "Subject")
	generateCmd.Flags().String("grade", "primary 6", "Grade level")
	generateCmd.Flags().StringP("out", "o", "", "Write the paper to a file instead of stdout")
	generateCmd.Flags().StringToInt("dist", nil, "Per-topic question counts, e.g. Fractions=4,Ratio=3 (overrides --topics/--count)")
	generateCmd.Flags().BoolP("verbose", "v", false, "Verbose logging")
}
