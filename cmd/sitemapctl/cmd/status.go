package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/romangod6/catalog-sitemap/internal/artifact"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored sitemap and whether it is fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Controller.Status(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if st.Artifact == nil {
			fmt.Fprintln(out, "no sitemap stored")
			return nil
		}
		state := "fresh"
		if !st.Fresh {
			state = "stale"
		}
		fmt.Fprintf(out, "name:       %s\n", st.Artifact.Name)
		fmt.Fprintf(out, "generated:  %s\n", st.Artifact.GeneratedAt.Format(artifact.TimeLayout))
		fmt.Fprintf(out, "age:        %s\n", st.Age.Truncate(time.Second))
		fmt.Fprintf(out, "max age:    %s\n", a.Controller.MaxAge())
		fmt.Fprintf(out, "state:      %s\n", state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
