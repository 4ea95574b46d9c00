package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cris/internal/logger"
	"github.com/spigell/cris/internal/pipeline"
	"github.com/spigell/cris/internal/report"
	"github.com/spigell/cris/internal/session"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate readiness once from the config and flags and print the report",
	Run: func(cmd *cobra.Command, _ []string) {
		evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	flags := evaluateCmd.Flags()
	flags.StringSliceP("subjects", "s", nil, "study subjects, comma separated")
	flags.String("other-subject", "", "one more subject that is not in the predefined list")
	flags.Float64P("daily-hours", "H", 4, "daily study hours (1-12)")
	flags.StringP("exam-date", "e", "", "exam date in YYYY-MM-DD format")
	flags.StringSlice("confidence", nil, "per subject confidence as Subject=level (1 low - 5 high), default level is 3")
	flags.StringP("resume-file", "r", "", "resume file (PDF, DOCX or plain text)")
	flags.String("resume-text", "", "resume text")
	flags.Bool("demo", false, "use the built-in demo resume")
	flags.StringP("output", "o", "", "export the report to this file")

	viper.BindPFlag("plan.subjects", flags.Lookup("subjects"))
	viper.BindPFlag("plan.other-subject", flags.Lookup("other-subject"))
	viper.BindPFlag("plan.daily-hours", flags.Lookup("daily-hours"))
	viper.BindPFlag("plan.exam-date", flags.Lookup("exam-date"))
	viper.BindPFlag("plan.confidence", flags.Lookup("confidence"))
	viper.BindPFlag("resume.file", flags.Lookup("resume-file"))
	viper.BindPFlag("resume.text", flags.Lookup("resume-text"))
	viper.BindPFlag("resume.demo", flags.Lookup("demo"))
	viper.BindPFlag("report.output", flags.Lookup("output"))
}

func evaluate(cmd *cobra.Command) {
	ctx := context.Background()

	log, config, catalog := setup()
	defer log.Sync()

	s := session.New(config.Career)
	deps := pipeline.Deps{Logger: log, Catalog: catalog}
	log = logger.WithSessionFields(log, s.ID, s.Career)

	input, err := pipelineConfig(config)
	if err != nil {
		log.Fatal("reading evaluation input", zap.Error(err))
	}

	steps := []pipeline.Step{pipeline.NewStudyPlan(), pipeline.NewResume()}
	if input.Plan == nil {
		pipeline.DisableByName(steps, pipeline.StudyPlanStep, "no study plan input")
	}
	if input.Resume == nil {
		pipeline.DisableByName(steps, pipeline.ResumeStep, "no resume input")
	}

	// do not bother error since statuses are plain data
	pretty, _ := json.MarshalIndent(pipeline.Describe(steps), "", "  ")
	log.Debug(fmt.Sprintf("evaluation steps: \n %s", pretty))

	if err := pipeline.Run(ctx, input, deps, steps, s); err != nil {
		log.Fatal("evaluation failed", zap.Error(err))
	}

	text := report.Render(s, time.Now())
	s.SetReport(text)
	fmt.Fprint(cmd.OutOrStdout(), text)

	if config.Report != nil && config.Report.Output != "" {
		if err := report.Export(config.Report.Output, text); err != nil {
			log.Fatal("exporting the report", zap.Error(err))
		}
		log.Info("report exported", zap.String("filename", config.Report.Output))
	}
}
