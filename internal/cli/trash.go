package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var trashEmpty bool

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "List deleted tasks",
	Args:  cobra.NoArgs,
	RunE:  runTrash,
}

func init() {
	trashCmd.Flags().BoolVar(&trashEmpty, "empty", false, "permanently delete everything in the trash")
}

func runTrash(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	w := cmd.OutOrStdout()

	if trashEmpty {
		s := sess.tasks()
		n := len(s.Trash())
		if err := s.EmptyTrash(); err != nil {
			return err
		}
		if err := s.SaveErr(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Removed %d tasks from the trash.\n", n)
		return nil
	}

	if len(sess.state.Trash) == 0 {
		fmt.Fprintln(w, "Trash is empty.")
		return nil
	}
	for _, t := range sess.state.Trash {
		deleted := ""
		if t.DeletedAt != nil {
			deleted = "  (deleted " + humanize.Time(*t.DeletedAt) + ")"
		}
		fmt.Fprintf(w, "%s%s\n", t.Title, deleted)
	}
	return nil
}
