package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayusman/liftform/internal/app"
	"github.com/ayusman/liftform/internal/pose"
)

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		exercise  string
		file      string
		estimator string
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [-- estimator-command [args...]]",
		Short: "Analyze newline-delimited JSON frames",
		Long: `Reads one frame per line from a file, standard input or the output of
an external pose estimator and prints one JSON report per frame. Invalid
lines are reported in the log and skipped. A summary is written to standard
error when the input is exhausted.

The estimator command is given after "--", with arguments passed through
unchanged. --exec is a shorthand that splits its value on whitespace and
does not interpret quotes.`,
		Example: `  liftform analyze --exercise squat --file frames.ndjson
  cat frames.ndjson | liftform analyze --exercise deadlift --save
  liftform analyze -e bench -- python3 estimate.py --label "front rack"
  liftform analyze --exec "python3 estimate.py --camera 0" -e bench`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ex pose.Exercise
			if exercise != "" {
				parsed, err := pose.ParseExercise(exercise)
				if err != nil {
					return err
				}
				ex = parsed
			}

			session := &app.Session{
				Exercise: ex,
				Logger:   c.logger,
			}

			if save {
				st, err := c.openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				session.Store = st
			}

			argv, err := estimatorArgv(estimator, cmd.Flags().Changed("exec"), args)
			if err != nil {
				return err
			}

			switch {
			case argv != nil:
				session.Source = pose.NewCommandSource(cmd.Context(), argv[0], argv[1:]...)
			case file != "" && file != "-":
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open frames: %w", err)
				}
				session.Source = pose.NewStreamSource(f)
			default:
				session.Source = pose.NewStreamSource(cmd.InOrStdin())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			session.OnReport = func(fr app.FrameReport) error {
				return enc.Encode(fr)
			}

			sum, err := session.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "frames=%d good=%d invalid=%d saved=%d average_score=%.3f\n",
				sum.Frames, sum.Good, sum.Invalid, sum.Saved, sum.AverageScore)
			return nil
		},
	}

	cmd.Flags().StringVarP(&exercise, "exercise", "e", "", "Exercise for frames that name none (squat, bench, deadlift)")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Frames file, or - for standard input")
	cmd.Flags().StringVar(&estimator, "exec", "", "Pose estimator command line, split on whitespace (use -- for quoted arguments)")
	cmd.Flags().BoolVar(&save, "save", false, "Record every analysis in the history store")
	return cmd
}

// estimatorArgv resolves the estimator command from the arguments after "--"
// or from the --exec shorthand. It returns nil when no estimator is set.
func estimatorArgv(line string, execSet bool, args []string) ([]string, error) {
	if len(args) > 0 {
		if execSet {
			return nil, fmt.Errorf("--exec cannot be combined with a command after --")
		}
		return args, nil
	}
	if !execSet {
		return nil, nil
	}

	argv := strings.Fields(line)
	if len(argv) == 0 {
		return nil, fmt.Errorf("--exec needs a command")
	}
	return argv, nil
}
