package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/nissyi-gh/tareas/internal/countdown"
	"github.com/nissyi-gh/tareas/internal/view"
	"github.com/spf13/cobra"
)

var (
	listFilter string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the task list with counts and countdowns",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "all, pending or completed (default from config)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "case-insensitive match on title or description")
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	raw := listFilter
	if raw == "" {
		raw = sess.cfg.DefaultFilter
	}
	filter, err := view.ParseFilter(raw)
	if err != nil {
		return err
	}

	now := time.Now()
	p := view.Project(sess.state.Active, filter, listSearch, now)
	printProjection(cmd.OutOrStdout(), p, sess.cfg.OverdueLabel, now)
	return nil
}

func printProjection(w io.Writer, p view.Projection, overdueLabel string, now time.Time) {
	fmt.Fprintf(w, "Total: %d  Pending: %d  Completed: %d\n", p.Total, p.Pending, p.Completed)
	if len(p.Items) == 0 {
		fmt.Fprintln(w, "\nNo tasks.")
		return
	}
	fmt.Fprintln(w)
	for _, it := range p.Items {
		check := "[ ]"
		if it.Task.IsCompleted() {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, it.Task.Title)
		if it.Task.IsPending() && it.Task.HasDueDate() {
			text, _ := countdown.Text(*it.Task.DueDate, now, overdueLabel)
			line += "  (" + text + ")"
		}
		if it.ShowOverdueBadge {
			line += "  !" + overdueLabel
		}
		fmt.Fprintln(w, line)
		if it.Task.Description != "" {
			fmt.Fprintf(w, "    %s\n", it.Task.Description)
		}
	}
}
