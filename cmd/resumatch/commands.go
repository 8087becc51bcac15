package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/resumatch/resumatch/internal/analyzer"
	"github.com/resumatch/resumatch/internal/bias"
	"github.com/resumatch/resumatch/internal/config"
	"github.com/resumatch/resumatch/internal/explain"
)

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job posting",
	Long: `Score a resume against a job posting and explain the result.

Inputs can be file paths (pdf, html, txt, md) or literal text.

Examples:
  resumatch analyze --resume resume.pdf --job posting.txt
  resumatch analyze --resume resume.pdf --job posting.txt --enhanced
  resumatch analyze --resume resume.txt --job posting.txt --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resumeArg, _ := cmd.Flags().GetString("resume")
		jobArg, _ := cmd.Flags().GetString("job")
		enhanced, _ := cmd.Flags().GetBool("enhanced")
		biasScan, _ := cmd.Flags().GetBool("bias")
		asJSON, _ := cmd.Flags().GetBool("json")
		years, _ := cmd.Flags().GetInt("years")
		education, _ := cmd.Flags().GetString("education")

		if resumeArg == "" || jobArg == "" {
			return fmt.Errorf("--resume and --job are required")
		}

		resumeText, err := readInput(resumeArg)
		if err != nil {
			return fmt.Errorf("reading resume: %w", err)
		}
		jobText, err := readInput(jobArg)
		if err != nil {
			return fmt.Errorf("reading job posting: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		p.warmUp(cmd.Context())

		analysis, err := p.analyzer.Analyze(cmd.Context(), analyzer.Request{
			ResumeText:         resumeText,
			JobText:            jobText,
			CandidateYears:     years,
			CandidateEducation: education,
			Enhanced:           enhanced,
			BiasScan:           biasScan,
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		}

		fmt.Println(explain.Report(analysis.Explanation))
		printStatus("Score", "%.2f (%s)", analysis.Breakdown.Overall, analysis.Classification.Label)
		printStatus("Recommendation", "%s", analysis.Classification.Recommendation)
		if analysis.Enhanced != nil {
			fmt.Printf("\n%s\n%s\n", colorize(colorBold, "CAREER OUTLOOK"), analysis.Enhanced.Summary)
			for _, step := range analysis.Enhanced.LearningRoadmap {
				fmt.Printf("  Phase %d: %s (%s, %s)\n", step.Phase, step.Skill, step.Priority, step.EstimatedTime)
			}
			fmt.Printf("\nPercentile: %d. %s\n", analysis.Enhanced.Benchmark.Percentile, analysis.Enhanced.Benchmark.Interpretation)
		}
		if analysis.Bias != nil && analysis.Bias.OverallRisk != bias.RiskLow {
			printWarning("bias risk: %s", analysis.Bias.OverallRisk)
			for _, w := range analysis.Bias.Warnings {
				fmt.Fprintln(os.Stderr, "  "+w)
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("resume", "", "resume file path or text")
	analyzeCmd.Flags().String("job", "", "job posting file path or text")
	analyzeCmd.Flags().Bool("enhanced", false, "include skill gaps, learning roadmap, and benchmark")
	analyzeCmd.Flags().Bool("bias", false, "include a bias scan")
	analyzeCmd.Flags().Bool("json", false, "emit the full analysis as JSON")
	analyzeCmd.Flags().Int("years", 0, "candidate years of experience (otherwise inferred)")
	analyzeCmd.Flags().String("education", "", "candidate education level (otherwise inferred)")
}

// --- batch ---

var batchCmd = &cobra.Command{
	Use:   "batch <resume>...",
	Short: "Rank multiple resumes against one job posting",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobArg, _ := cmd.Flags().GetString("job")
		asJSON, _ := cmd.Flags().GetBool("json")
		if jobArg == "" {
			return fmt.Errorf("--job is required")
		}

		jobText, err := readInput(jobArg)
		if err != nil {
			return fmt.Errorf("reading job posting: %w", err)
		}

		resumes := make([]analyzer.NamedText, 0, len(args))
		for _, path := range args {
			text, err := readInput(path)
			if err != nil {
				printError("skipping %s: %v", path, err)
				continue
			}
			resumes = append(resumes, analyzer.NamedText{Name: path, Text: text})
		}
		if len(resumes) == 0 {
			return fmt.Errorf("no readable resumes")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		p.warmUp(cmd.Context())

		results, err := p.analyzer.AnalyzeBatch(cmd.Context(), resumes, jobText, analyzer.Request{})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		for _, r := range results {
			if r.Err != "" {
				printError("%s: %s", r.Name, r.Err)
				continue
			}
			fmt.Printf("%2d. %-40s %6.2f  %s\n",
				r.Rank, r.Name, r.Analysis.Breakdown.Overall, r.Analysis.Classification.Label)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().String("job", "", "job posting file path or text")
	batchCmd.Flags().Bool("json", false, "emit ranked results as JSON")
}

// --- skills ---

var skillsCmd = &cobra.Command{
	Use:   "skills <file-or-text>",
	Short: "Extract recognized skills from a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		skills := p.extractor.ExtractSkills(text)
		if len(skills) == 0 {
			fmt.Println("No recognized skills found.")
			return nil
		}

		for category, names := range p.vocab.Categorize(skills) {
			fmt.Printf("%s\n", colorize(colorBold, category))
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
		}
		return nil
	},
}

// --- ats ---

var atsCmd = &cobra.Command{
	Use:   "ats",
	Short: "Check a resume for applicant tracking system issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		resumeArg, _ := cmd.Flags().GetString("resume")
		jobArg, _ := cmd.Flags().GetString("job")
		if resumeArg == "" {
			return fmt.Errorf("--resume is required")
		}

		resumeText, err := readInput(resumeArg)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		var jobSkills []string
		if jobArg != "" {
			jobText, err := readInput(jobArg)
			if err != nil {
				return err
			}
			jobSkills = p.extractor.ExtractSkills(jobText)
		}

		report := explain.CheckATS(resumeText, jobSkills)
		printStatus("ATS score", "%.0f/100", report.OverallScore)
		printStatus("Formatting", "%.0f", report.FormattingScore)
		printStatus("Keyword optimization", "%.0f", report.KeywordOptimization)
		if report.Friendly {
			printSuccess("Resume is ATS friendly")
		} else {
			printWarning("Resume may be rejected by tracking systems")
		}
		for _, issue := range report.Issues {
			fmt.Printf("  - %s\n", issue)
		}
		for _, rec := range report.Recommendations {
			printStep("%s", rec)
		}
		return nil
	},
}

func init() {
	atsCmd.Flags().String("resume", "", "resume file path or text")
	atsCmd.Flags().String("job", "", "job posting file path or text")
}

// --- bias ---

var biasCmd = &cobra.Command{
	Use:   "bias",
	Short: "Scan for potential screening bias",
	RunE: func(cmd *cobra.Command, args []string) error {
		resumeArg, _ := cmd.Flags().GetString("resume")
		jobArg, _ := cmd.Flags().GetString("job")
		anonymize, _ := cmd.Flags().GetBool("anonymize")
		if resumeArg == "" {
			return fmt.Errorf("--resume is required")
		}

		resumeText, err := readInput(resumeArg)
		if err != nil {
			return err
		}
		var jobText string
		if jobArg != "" {
			if jobText, err = readInput(jobArg); err != nil {
				return err
			}
		}

		if anonymize {
			fmt.Println(bias.Anonymize(resumeText))
			return nil
		}

		report := bias.Detect(resumeText, jobText)
		printStatus("Overall risk", "%s", report.OverallRisk)
		for _, w := range report.Warnings {
			printWarning("%s", w)
		}
		for _, rec := range report.Recommendations {
			printStep("%s", rec)
		}
		return nil
	},
}

func init() {
	biasCmd.Flags().String("resume", "", "resume file path or text")
	biasCmd.Flags().String("job", "", "job posting file path or text")
	biasCmd.Flags().Bool("anonymize", false, "print an anonymized copy instead of a report")
}

// --- analyses ---

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "Browse stored analyses on a running server",
}

var analysesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/v1/analyses?limit=%d", limit))
		if err != nil {
			return err
		}

		var analyses []struct {
			ID        string  `json:"id"`
			CreatedAt string  `json:"created_at"`
			Overall   float64 `json:"overall_score"`
			Label     string  `json:"label"`
		}
		if err := decodeJSON(resp, &analyses); err != nil {
			return err
		}

		if len(analyses) == 0 {
			fmt.Println("No analyses found.")
			return nil
		}
		for _, a := range analyses {
			fmt.Printf("%s  %s  %6.2f  %s\n",
				colorize(colorCyan, a.ID[:8]), a.CreatedAt, a.Overall, a.Label)
		}
		return nil
	},
}

var analysesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/analyses/"+args[0])
		if err != nil {
			return err
		}

		var analysis any
		if err := decodeJSON(resp, &analysis); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	},
}

func init() {
	analysesListCmd.Flags().Int("limit", 20, "maximum number of analyses to list")
	analysesCmd.AddCommand(analysesListCmd)
	analysesCmd.AddCommand(analysesShowCmd)
}

// --- feedback ---

var feedbackCmd = &cobra.Command{
	Use:   "feedback <analysis-id>",
	Short: "Record a reviewer verdict on a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, _ := cmd.Flags().GetInt("rating")
		verdict, _ := cmd.Flags().GetString("verdict")
		comment, _ := cmd.Flags().GetString("comment")

		if rating < 1 || rating > 5 {
			return fmt.Errorf("--rating must be between 1 and 5")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/v1/analyses/"+args[0]+"/feedback", map[string]any{
			"rating":  rating,
			"verdict": verdict,
			"comment": comment,
		})
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Recorded feedback %s", result["id"])
		return nil
	},
}

var feedbackStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate feedback statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/feedback/stats")
		if err != nil {
			return err
		}

		var stats struct {
			Count         int            `json:"count"`
			AverageRating float64        `json:"average_rating"`
			Verdicts      map[string]int `json:"verdicts"`
		}
		if err := decodeJSON(resp, &stats); err != nil {
			return err
		}

		printStatus("Feedback entries", "%d", stats.Count)
		printStatus("Average rating", "%.2f", stats.AverageRating)
		for verdict, n := range stats.Verdicts {
			printStatus(verdict, "%d", n)
		}
		return nil
	},
}

func init() {
	feedbackCmd.Flags().Int("rating", 0, "rating 1-5 (required)")
	feedbackCmd.Flags().String("verdict", "", "agree, disagree, or unsure")
	feedbackCmd.Flags().String("comment", "", "free-form comment")
	feedbackCmd.AddCommand(feedbackStatsCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
