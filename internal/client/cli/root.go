package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fashionhub/internal/client/tui"
)

var rootCmd = &cobra.Command{
	Use:           "fashionhub",
	Short:         "Shop from the terminal: session, cart and favorites",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

// ServerURL should be injected via ldflags. Default for dev.
var ServerURL = ""

var verbose bool

func Init(serverURL string) {
	if serverURL != "" {
		ServerURL = serverURL
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log storage and session activity")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(avatarCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(favCmd)
}

func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorText(err.Error()))
		os.Exit(1)
	}
}

// run executes one command and tears down the session it built, also
// when the command failed.
func run(args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	defer func() {
		if current != nil {
			current.close()
			current = nil
		}
	}()
	return rootCmd.Execute()
}
