package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cris/internal/careers"
	"github.com/spigell/cris/internal/extract"
	"github.com/spigell/cris/internal/logger"
	"github.com/spigell/cris/internal/pipeline"
	"github.com/spigell/cris/internal/planner"
	"github.com/spigell/cris/internal/readiness"
	"github.com/spigell/cris/internal/report"
	"github.com/spigell/cris/internal/session"
)

const (
	PromptDashboard      = "Dashboard"
	PromptStudyPlanner   = "Study Planner"
	PromptResumeAnalyzer = "Resume Analyzer"
	PromptSelectCareer   = "Select career"
	PromptGenerateReport = "Generate report"
	PromptExportReport   = "Export report"
	PromptExit           = "Exit"

	PromptResumeFile = "Upload a resume file (PDF, DOCX, TXT)"
	PromptResumeDemo = "Use demo resume text"
	PromptResumeText = "Paste resume text"

	defaultDailyHours = 4
)

var errExit = errors.New("exit requested")

var menu = promptui.Select{
	Label: "Choose a section",
	Items: []string{
		PromptDashboard,
		PromptStudyPlanner,
		PromptResumeAnalyzer,
		PromptSelectCareer,
		PromptGenerateReport,
		PromptExportReport,
		PromptExit,
	},
	Size: 10,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive readiness session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// interactive holds everything the menu actions share. One value lives for
// the whole process.
type interactive struct {
	ctx     context.Context
	out     io.Writer
	logger  *zap.Logger
	deps    pipeline.Deps
	config  *Config
	catalog *careers.Catalog
	session *session.Session
}

// run is the interactive command for the cli.
func run(cmd *cobra.Command) {
	log, config, catalog := setup()
	defer log.Sync()

	log.Info("starting the cris session", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	s := session.New(config.Career)

	i := &interactive{
		ctx:     context.Background(),
		out:     cmd.OutOrStdout(),
		logger:  logger.WithFields(log, logger.StringFields(logger.StringField{Key: logger.FieldSession, Value: s.ID})...),
		deps:    pipeline.Deps{Logger: log, Catalog: catalog},
		config:  config,
		catalog: catalog,
		session: s,
	}

	for {
		_, action, err := menu.Run()
		if err != nil {
			if interrupted(err) {
				i.logger.Info("exiting", zap.String("reason", "prompt closed"))
				return
			}
			i.logger.Fatal("exiting", zap.Error(err))
		}

		if i.finish(action, i.handleAction(action)) {
			return
		}
	}
}

// finish logs the result of a menu action and reports whether the session is
// over. An interrupted nested prompt returns to the menu.
func (i *interactive) finish(action string, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, errExit):
		i.logger.Info("exiting", zap.String("reason", "exit requested"))
		return true
	case interrupted(err):
		i.logger.Info("back to the menu", zap.String("action", action))
		return false
	default:
		i.logger.Warn("action failed", zap.String("action", action), zap.Error(err))
		return false
	}
}

func (i *interactive) handleAction(action string) error {
	switch action {
	case PromptDashboard:
		i.dashboard()
		return nil
	case PromptStudyPlanner:
		return i.studyPlanner()
	case PromptResumeAnalyzer:
		return i.resumeAnalyzer()
	case PromptSelectCareer:
		return i.selectCareer()
	case PromptGenerateReport:
		i.generateReport()
		return nil
	case PromptExportReport:
		return i.exportReport()
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (i *interactive) dashboard() {
	scores := i.session.Scores

	fmt.Fprintf(i.out, "Target career: %s\n", i.session.Career)
	fmt.Fprintf(i.out, "Academic strength: %.1f\n", scores.Academic)
	fmt.Fprintf(i.out, "Career alignment: %.1f\n", scores.Alignment)
	fmt.Fprintf(i.out, "Resume match: %.1f\n", scores.Resume)
	fmt.Fprintf(i.out, "Unified readiness: %.1f\n", i.session.Unified())
	io.WriteString(i.out, "Scoring formula: 35% Academic + 30% Alignment + 35% Resume.\n")

	fmt.Fprintln(i.out, "Next actions:")
	for _, action := range readiness.NextActions(scores) {
		fmt.Fprintf(i.out, "- %s\n", action)
	}
}

func (i *interactive) studyPlanner() error {
	subjects, err := promptSubjects(i.catalog.Subjects())
	if err != nil {
		return err
	}

	hours, err := promptInt("Daily study hours", i.defaultHours(), planner.MinDailyHours, planner.MaxDailyHours)
	if err != nil {
		return err
	}

	exam, err := promptDate("Exam date (YYYY-MM-DD)", time.Now().AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	confidence := make(map[string]int, len(subjects))
	for _, subject := range subjects {
		level, err := promptInt(
			fmt.Sprintf("Confidence in %s (1 low - 5 high)", subject),
			planner.DefaultConfidence, planner.MinConfidence, planner.MaxConfidence,
		)
		if err != nil {
			return err
		}
		confidence[subject] = level
	}

	cfg := &pipeline.Config{
		Plan: &pipeline.PlanConfig{
			Subjects:   subjects,
			DailyHours: float64(hours),
			ExamDate:   exam,
			Confidence: confidence,
		},
	}

	if err := pipeline.Run(i.ctx, cfg, i.deps, []pipeline.Step{pipeline.NewStudyPlan()}, i.session); err != nil {
		return err
	}

	s := i.session
	fmt.Fprintf(i.out, "Study plan (%d days left):\n", s.DaysLeft)
	for _, entry := range s.Plan {
		fmt.Fprintf(i.out, "- %s: %.1f h/day\n", entry.Subject, entry.Hours)
	}
	fmt.Fprintf(i.out, "Academic strength: %.2f%%\n", s.Scores.Academic)
	fmt.Fprintf(i.out, "Career alignment: %.2f%%\n", s.Scores.Alignment)

	if len(s.AlignmentGaps) == 0 {
		fmt.Fprintln(i.out, "No major gaps detected.")
	} else {
		fmt.Fprintf(i.out, "Alignment gaps: %s\n", strings.Join(s.AlignmentGaps, ", "))
	}

	return nil
}

func (i *interactive) defaultHours() int {
	if i.config.Plan == nil {
		return defaultDailyHours
	}

	hours := int(i.config.Plan.DailyHours)
	if hours < planner.MinDailyHours || hours > planner.MaxDailyHours {
		return defaultDailyHours
	}

	return hours
}

func (i *interactive) resumeAnalyzer() error {
	choice, err := selectOne("Resume source", []string{PromptResumeFile, PromptResumeDemo, PromptResumeText, PromptBack})
	if err != nil {
		return err
	}

	input := &pipeline.ResumeConfig{Source: extract.Source{Name: "resume"}}

	switch choice {
	case PromptBack:
		return nil
	case PromptResumeDemo:
		input.Demo = true
	case PromptResumeFile:
		def := ""
		if i.config.Resume != nil {
			def = i.config.Resume.File
		}
		input.Source.File, err = promptText("Resume file path", def, nil)
		if err != nil {
			return err
		}
	case PromptResumeText:
		input.Source.Value, err = promptText("Resume text", "", nil)
		if err != nil {
			return err
		}
	}

	cfg := &pipeline.Config{Resume: input}
	if err := pipeline.Run(i.ctx, cfg, i.deps, []pipeline.Step{pipeline.NewResume()}, i.session); err != nil {
		return err
	}

	s := i.session
	fmt.Fprintf(i.out, "Resume match: %.2f%%\n", s.Scores.Resume)
	fmt.Fprintf(i.out, "Unified readiness: %.2f%%\n", s.Unified())

	if len(s.ResumeMatched) == 0 {
		fmt.Fprintln(i.out, "No relevant skills found.")
	} else {
		fmt.Fprintf(i.out, "Detected skills: %s\n", strings.Join(s.ResumeMatched, ", "))
	}

	if len(s.ResumeMissing) == 0 {
		fmt.Fprintln(i.out, "All core skills covered.")
	} else {
		fmt.Fprintf(i.out, "Skill gaps: %s\n", strings.Join(s.ResumeMissing, ", "))
	}

	return nil
}

func (i *interactive) selectCareer() error {
	career, err := selectOne("Target career", i.catalog.Names())
	if err != nil {
		return err
	}

	i.session.SetCareer(career)
	i.logger.Info("target career selected", zap.String(logger.FieldCareer, career))

	return nil
}

func (i *interactive) generateReport() {
	text := report.Render(i.session, time.Now())
	i.session.SetReport(text)
	fmt.Fprint(i.out, text)
}

func (i *interactive) exportReport() error {
	if i.session.LastReport == "" {
		return errors.New("generate the report before exporting it")
	}

	def := report.DefaultFileName
	if i.config.Report != nil && strings.TrimSpace(i.config.Report.Output) != "" {
		def = i.config.Report.Output
	}

	path, err := promptText("Export to file", def, nil)
	if err != nil {
		return err
	}

	if err := report.Export(path, i.session.LastReport); err != nil {
		return err
	}

	i.logger.Info("report exported", zap.String("filename", path))
	return nil
}
