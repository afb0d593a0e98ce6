package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fashionhub/internal/client/identity"
	"fashionhub/internal/client/tui"
)

var loginCmd = &cobra.Command{
	Use:   "login [email] [password]",
	Short: "Sign in and switch to your cart and favorites",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		id, err := a.client.Login(a.ctx, args[0], args[1])
		if err != nil {
			return err
		}
		a.ids.Login(*id)
		a.println(tui.OKText(fmt.Sprintf("Signed in as %s", id.Name)))
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup [name] [email] [password]",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		id, err := a.client.Signup(a.ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		a.ids.Login(*id)
		a.println(tui.OKText(fmt.Sprintf("Welcome, %s", id.Name)))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out; the guest cart becomes active again",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := current
		a.ids.Logout(a.ctx)
		// The server may be unreachable; the local session is dropped either way.
		a.saveSession("")
		a.println(tui.OKText("Signed out"))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := current
		a.println(tui.Identity(a.ids.Current(), a.shop.Keys()))
	},
}

var avatarCmd = &cobra.Command{
	Use:   "avatar [file]",
	Short: "Upload a JPG, PNG or WEBP avatar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if !a.ids.IsAuthenticated() {
			return fmt.Errorf("not signed in, run 'fashionhub login' first")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		url, err := a.client.UploadAvatar(a.ctx, args[0], f)
		if err != nil {
			return err
		}
		a.ids.UpdateIdentity(identity.Patch{Avatar: &url})
		a.println(tui.OKText("Avatar updated: " + url))
		return nil
	},
}
