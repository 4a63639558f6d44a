// Package main provides the CLI entrypoint for glide.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/satriapamudji/glidereader/internal/chapter"
	"github.com/satriapamudji/glidereader/internal/config"
	"github.com/satriapamudji/glidereader/internal/content"
	"github.com/satriapamudji/glidereader/internal/model"
	"github.com/satriapamudji/glidereader/internal/playback"
	"github.com/satriapamudji/glidereader/internal/stats"
	"github.com/satriapamudji/glidereader/internal/statsui"
	"github.com/satriapamudji/glidereader/internal/store"
	"github.com/satriapamudji/glidereader/internal/token"
	"github.com/satriapamudji/glidereader/internal/tui"
)

const (
	defaultProfile     = "normal"
	defaultCurveWindow = 10
)

var (
	readWPM       int
	readProfile   string
	readFromStart bool

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "glide [file]",
		Short:         "TUI speed reader",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReadCmd,
	}

	rootCmd.Flags().IntVar(&readWPM, "wpm", model.DefaultWPM, "reading speed in words per minute")
	rootCmd.Flags().StringVar(&readProfile, "profile", defaultProfile, "pause profile (fast, normal, slow)")
	rootCmd.Flags().BoolVar(&readFromStart, "from-start", false, "ignore the saved position and start at the beginning")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDocsCmd())

	return rootCmd
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "wpm", &readWPM, fileCfg.Reading.WPM)
	applyStringConfig(cmd, "profile", &readProfile, fileCfg.Reading.Profile)

	cfg := model.Config{
		WPM:       readWPM,
		Profile:   readProfile,
		FromStart: readFromStart,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	profile, _ := model.ProfileByName(cfg.Profile)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	var doc model.Document
	if len(args) == 1 {
		doc, err = openOrImport(ctx, st, args[0], profile)
	} else {
		doc, err = resumeLatest(ctx, st)
	}
	if err != nil {
		return err
	}

	tokens := token.Tokenize(doc.Text, profile)
	if len(tokens) == 0 {
		return fmt.Errorf("document %q has no readable tokens", doc.Title)
	}
	chapters, err := st.ListChapters(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to load chapters: %w", err)
	}

	startIndex := doc.LastPosition
	if cfg.FromStart || startIndex >= len(tokens) {
		startIndex = 0
	}

	sessionID, err := st.CreateSession(ctx, doc.ID, cfg.WPM)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	engine := playback.NewEngine(cfg.WPM, store.NewSink(st, doc.ID, sessionID))
	engine.Load(tokens, startIndex)

	readerModel := tui.NewModel(engine, st, doc, chapters, sessionID, tokens)
	program := tea.NewProgram(readerModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openOrImport returns the stored document matching the file's content,
// importing it on first read. Re-reading an already imported file
// resumes its saved position.
func openOrImport(ctx context.Context, st *store.Store, path string, profile model.PauseProfile) (model.Document, error) {
	src, err := content.Load(path)
	if err != nil {
		return model.Document{}, err
	}
	if doc, ok, err := st.FindDocumentByHash(ctx, src.Hash); err != nil {
		return model.Document{}, fmt.Errorf("failed to look up document: %w", err)
	} else if ok {
		return doc, nil
	}

	tokens := token.Tokenize(src.Text, profile)
	if len(tokens) == 0 {
		return model.Document{}, fmt.Errorf("document %q has no readable tokens", src.Title)
	}
	chapters := chapter.Detect(src.Text)
	doc, err := st.CreateDocument(ctx, model.Document{
		Title:       src.Title,
		SourceType:  src.SourceType,
		ContentHash: src.Hash,
		Text:        src.Text,
		TotalTokens: len(tokens),
	}, chapters)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to import document: %w", err)
	}
	return doc, nil
}

func resumeLatest(ctx context.Context, st *store.Store) (model.Document, error) {
	doc, ok, err := st.LatestDocument(ctx)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to load latest document: %w", err)
	}
	if !ok {
		return model.Document{}, fmt.Errorf("no documents yet; run: glide <file>")
	}
	return doc, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reading stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.Render(cmd.OutOrStdout(), report, cfg)
	}

	statsModel := statsui.NewModel(st, cfg)
	program := tea.NewProgram(statsModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE:  runDocsCmd,
	}
}

func runDocsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	docs, err := st.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		logErrln("No documents yet. Import one with: glide <file>")
		return nil
	}
	out := cmd.OutOrStdout()
	for _, doc := range docs {
		status := fmt.Sprintf("%d/%d", doc.LastPosition, doc.TotalTokens)
		if doc.Finished {
			status = "finished"
		}
		if _, err := fmt.Fprintf(out, "%s  [%s, %s, added %s]\n",
			doc.Title, doc.SourceType, status, doc.CreatedAt.Format("2006-01-02")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# glide configuration
# Uncomment a value to enable it. CLI flags override config values.

[reading]
# wpm = %d             # Reading speed, %d-%d words per minute
# profile = %q     # Pause profile: fast, normal, slow

[stats]
# curve-window = %d     # Moving average window for curves
`,
		model.DefaultWPM,
		model.MinWPM,
		model.MaxWPM,
		defaultProfile,
		defaultCurveWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.WPM < model.MinWPM || cfg.WPM > model.MaxWPM {
		return fmt.Errorf("--wpm must be between %d and %d", model.MinWPM, model.MaxWPM)
	}
	if _, ok := model.ProfileByName(cfg.Profile); !ok {
		return fmt.Errorf("unknown profile %q (available: %s)", cfg.Profile, strings.Join(model.ProfileNames(), ", "))
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
