package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/tareas/internal/countdown"
	"github.com/nissyi-gh/tareas/internal/tasks"
	"github.com/nissyi-gh/tareas/internal/ui"
	"github.com/nissyi-gh/tareas/internal/view"
	"github.com/spf13/cobra"
)

var (
	dbFlag     string
	configFlag string
	debug      bool
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "tareas",
		Short: "A terminal task tracker with due-date countdowns",
		Long: `tareas keeps a single list of tasks with optional due dates, a trash
for deleted tasks, and a live countdown for every pending task that has a due date.

Run without arguments to open the interactive UI.`,
		RunE:          runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database file (default $XDG_DATA_HOME/tareas/tareas.db)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default $XDG_CONFIG_HOME/tareas/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write logs to debug.log")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(newVersionCmd(version))

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	if debug {
		f, err := tea.LogToFile("debug.log", "tareas")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	filter, err := view.ParseFilter(sess.cfg.DefaultFilter)
	if err != nil {
		return err
	}

	updates, notify := ui.CountdownNotifier()
	engine := countdown.New(
		countdown.WithPeriod(sess.cfg.TickInterval),
		countdown.WithOverdueLabel(sess.cfg.OverdueLabel),
		countdown.WithNotify(notify),
	)
	defer engine.StopAll()

	s := tasks.New(sess.adapter, sess.state, tasks.WithReconciler(engine))
	m := ui.NewModel(s, engine,
		ui.WithFilter(filter),
		ui.WithCountdownUpdates(updates),
	)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
