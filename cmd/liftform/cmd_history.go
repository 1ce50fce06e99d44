package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/liftform/internal/pose"
	"github.com/ayusman/liftform/internal/store"
)

func (c *cli) historyCmd() *cobra.Command {
	var (
		exercise string
		limit    int
		asJSON   bool
		stats    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ex pose.Exercise
			if exercise != "" {
				parsed, err := pose.ParseExercise(exercise)
				if err != nil {
					return err
				}
				ex = parsed
			}

			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()

			if stats {
				s, err := st.Analyses().Stats(ex)
				if err != nil {
					return fmt.Errorf("stats: %w", err)
				}
				if asJSON {
					return json.NewEncoder(out).Encode(s)
				}
				fmt.Fprintf(out, "analyses=%d good=%d average_score=%.3f\n", s.Count, s.Good, s.AverageScore)
				return nil
			}

			list, err := st.Analyses().List(store.ListOptions{Exercise: ex, Limit: limit})
			if err != nil {
				return fmt.Errorf("list analyses: %w", err)
			}

			if asJSON {
				return json.NewEncoder(out).Encode(list)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEXERCISE\tSCORE\tGOOD\tCREATED\tISSUES")
			for _, a := range list {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%t\t%s\t%s\n",
					a.ID, orDash(string(a.Exercise)), a.Score, a.IsGood,
					a.CreatedAt.Format("2006-01-02 15:04:05"), strings.Join(a.Issues, "; "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&exercise, "exercise", "e", "", "Only show this exercise")
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "Maximum number of analyses")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print aggregate statistics instead of a list")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
