package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wyg1997/ActionsBot/config"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Print the effective command table",
	Long:  `Prints the launch commands in listing order, read from COMMANDS_FILE when it is set.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		table, err := config.LoadCommandTable(cfg.CommandsFile)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COMMAND\tIMAGE")
		for _, e := range table.List() {
			fmt.Fprintf(tw, "/%s\t%s\n", e.Command, e.Image)
		}
		return tw.Flush()
	},
}

var secretAccounts = map[string]string{
	"telegram": config.KeychainTelegramToken,
	"github":   config.KeychainGitHubToken,
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage tokens stored in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:       "set <telegram|github>",
	Short:     "Store a token read from stdin in the OS keychain",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"telegram", "github"},
	RunE: func(cmd *cobra.Command, args []string) error {
		account, ok := secretAccounts[args[0]]
		if !ok {
			return fmt.Errorf("unknown secret %q, expected telegram or github", args[0])
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Enter %s token: ", args[0])
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read token: %w", err)
		}
		value := strings.TrimSpace(line)
		if value == "" {
			return fmt.Errorf("token is empty")
		}

		if err := config.StoreSecret(account, value); err != nil {
			return fmt.Errorf("store %s token: %w", args[0], err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "\nStored %s token in the keychain\n", args[0])
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd)
	rootCmd.AddCommand(commandsCmd, secretCmd)
}
