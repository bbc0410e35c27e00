package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/batalabs/pinchat/internal/config"
	"github.com/batalabs/pinchat/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a key is saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.OpenStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.Existing()
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan)
		gray := color.New(color.FgHiBlack)
		out := cmd.OutOrStdout()
		if dbPath, err := config.DatabasePath(); err == nil {
			gray.Fprintf(out, "store: %s\n", dbPath)
		}
		if rec == nil {
			color.New(color.FgYellow).Fprintln(out, "No key saved. Run pinchat to sign in.")
			return nil
		}
		color.New(color.FgGreen).Fprintln(out, "Key saved, locked by PIN.")
		cyan.Fprint(out, "  key      ")
		fmt.Fprintln(out, config.MaskKey(rec.Secret))
		cyan.Fprint(out, "  updated  ")
		fmt.Fprintln(out, rec.UpdatedAt.Local().Format(time.RFC1123))
		return nil
	},
}

var forgetYes bool

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Delete the saved key and PIN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !forgetYes {
			return fmt.Errorf("this deletes the saved key; rerun with --yes to confirm")
		}
		st, err := store.OpenStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(); err != nil {
			if errors.Is(err, store.ErrNoRecord) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to forget.")
				return nil
			}
			return err
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Saved key deleted. The next launch will ask for a key.")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change preferences",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every preference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs := config.LoadPreferences()
		out := cmd.OutOrStdout()
		if color.NoColor {
			fmt.Fprintln(out, config.FormatConfigGroups(prefs.Grouped()))
			fmt.Fprintf(out, "\nfile: %s\n", config.ConfigFilePath())
			return nil
		}
		heading := color.New(color.FgCyan, color.Bold)
		for i, g := range prefs.Grouped() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			heading.Fprintln(out, strings.ToUpper(g.Name[:1])+g.Name[1:]+":")
			for _, e := range g.Entries {
				fmt.Fprintf(out, "  %-16s %s\n", e.Key, e.Value)
			}
		}
		color.New(color.FgHiBlack).Fprintf(out, "\nfile: %s\n", config.ConfigFilePath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one preference",
	Long:  "Change one preference. Keys: " + strings.Join(config.ValidConfigKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs := config.LoadPreferences()
		if err := prefs.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.SavePreferences(prefs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], prefs.Get(args[0]))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pinchat %s\n", version)
	},
}

func init() {
	forgetCmd.Flags().BoolVar(&forgetYes, "yes", false, "Confirm deletion")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(statusCmd, forgetCmd, configCmd, versionCmd)
}
