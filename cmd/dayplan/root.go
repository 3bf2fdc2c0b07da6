package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nhle/dayplan/internal/app"
	"github.com/nhle/dayplan/internal/backup"
	"github.com/nhle/dayplan/internal/day"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "Plan up to three goals a day",
	Long: `Dayplan keeps a short list of daily goals, marks unfinished ones overdue
when the day ends and reminds you through the day.

Run without a subcommand to open the terminal UI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/dayplan/config.yaml)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(configCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	env, err := setup(true)
	if err != nil {
		return err
	}
	defer env.Close()

	window, err := day.WindowOf(env.prefsOrDefault())
	if err != nil {
		return err
	}

	m := app.New(app.Deps{
		Store:      env.store,
		Prefs:      env.prefs,
		Reconciler: env.reconciler,
		Scheduler:  env.scheduler,
		Dispatcher: env.dispatcher,
		Watcher:    day.NewWatcher(env.clock, window),
		Clock:      env.clock,
		Log:        env.log,
		Backup:     backup.NewService(env.store, env.prefs, env.clock, env.log),
		Files:      backup.NewFiles(afero.NewOsFs(), env.cfg.Backup.CacheDir),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
