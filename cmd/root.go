package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/healcone/logging"
	"github.com/phil-mansfield/healcone/version"
)

// readsStdin lists the modes which take a catalog on stdin.
var readsStdin = map[string]bool{"cone": true, "hash": true}

var modeDescriptions = map[string]string{
	"cone": "Computes the cells covered by a fixed-radius cone around " +
		"every position read from stdin.",
	"hash": "Finds the cell containing every position read from stdin.",
	"random": "Writes positions drawn uniformly from the sky or from a " +
		"single cap.",
}

// NewRootCmd returns the healcone command with one subcommand per mode.
func NewRootCmd() *cobra.Command {
	var logMode string

	root := &cobra.Command{
		Use:   "healcone",
		Short: "Fixed-radius cone queries on the nested HEALPix grid",
		Long: `healcone computes the HEALPix cells covered by cones of a fixed radius.

Every mode reads a whitespace-separated catalog from stdin and writes one to
stdout. Modes are configured by an optional config file, whose variables can
be overridden with --set Name=value or with the mode's flags. Run
"healcone config <mode>" to print an example config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flag, err := logging.ParseFlag(logMode)
			if err != nil {
				return err
			}
			logging.SetMode(flag)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logMode, "log", "nil",
		"logging mode: nil, performance or debug")

	names := make([]string, 0, len(ModeNames))
	for name := range ModeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		root.AddCommand(newModeCmd(name, ModeNames[name]()))
	}

	root.AddCommand(newConfigCmd(), newVersionCmd())
	return root
}

// Execute runs the healcone command on the process's arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

func newModeCmd(name string, mode Mode) *cobra.Command {
	var overrides []string
	shortcuts := mode.Shortcuts()
	values := make([]string, len(shortcuts))

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [flags] [%s.config]", name, name),
		Short: modeDescriptions[name],
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fname := ""
			if len(args) == 1 {
				fname = args[0]
			}

			sets := []string{}
			for i, s := range shortcuts {
				if cmd.Flags().Changed(s.Flag) {
					sets = append(sets, s.Var+"="+values[i])
				}
			}
			sets = append(sets, overrides...)

			if err := ReadConfig(mode, fname, sets); err != nil {
				return modeError(name, err)
			}

			stdin := []byte{}
			if readsStdin[name] {
				var err error
				if stdin, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return modeError(name, fmt.Errorf("Error reading "+
						"stdin: %w", err))
				}
			}

			lines, err := mode.Run(stdin)
			if err != nil {
				return modeError(name, err)
			}
			if len(lines) == 0 {
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return err
		},
	}

	for i, s := range shortcuts {
		cmd.Flags().StringVarP(&values[i], s.Flag, s.Short, "", s.Usage)
		if s.NoOptValue != "" {
			cmd.Flags().Lookup(s.Flag).NoOptDefVal = s.NoOptValue
		}
	}
	cmd.Flags().StringArrayVar(&overrides, "set", nil,
		"override a config variable, as Name=value")

	return cmd
}

func modeError(name string, err error) error {
	return fmt.Errorf("Error running mode %s:\n%w", name, err)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "config <mode>",
		Short:     "Prints an example config file for a mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"cone", "hash", "random"},
		RunE: func(cmd *cobra.Command, args []string) error {
			newMode, ok := ModeNames[args[0]]
			if !ok {
				return fmt.Errorf("'%s' is not a healcone mode.", args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(),
				newMode().ExampleConfig())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of healcone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "healcone %s\n",
				version.SourceVersion)
			return err
		},
	}
}
