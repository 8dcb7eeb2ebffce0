package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/nissyi-gh/tareas/internal/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml|->",
	Short: "Create tasks from a YAML document",
	Long: `Create tasks from a YAML document. Use - to read from standard input.

Children are added right after their parent. Run "tareas export" to see the format.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	s := sess.tasks()
	n, err := importer.Import(s, string(data))
	if n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks.\n", n)
	}
	if err != nil {
		return err
	}
	return s.SaveErr()
}
