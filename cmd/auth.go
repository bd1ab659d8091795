package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in as a student and remember the username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("class")
		if class == "" {
			return fmt.Errorf("--class is required")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		student, err := e.client.Login(ctx, args[0], class)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := e.controller.SignIn(ctx, student.Username); err != nil {
			return err
		}

		name := student.DisplayName
		if name == "" {
			name = student.Username
		}
		fmt.Printf("Logged in as %s (class %s).\n", name, student.ClassName)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the remembered student",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if e.user == "" {
			fmt.Println("Nobody is logged in.")
			return nil
		}
		if err := e.controller.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Logged out %s.\n", e.user)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("class", "", "Class name, e.g. 7B")
}
