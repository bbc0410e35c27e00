// pinchat CLI entry point
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/batalabs/pinchat/internal/auth"
	"github.com/batalabs/pinchat/internal/config"
	"github.com/batalabs/pinchat/internal/provider"
	"github.com/batalabs/pinchat/internal/store"
	"github.com/batalabs/pinchat/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

var (
	surfaceFlag      string
	dismissDelayFlag string
	modelFlag        string
)

var rootCmd = &cobra.Command{
	Use:           "pinchat",
	Short:         "PIN-gated OpenRouter chat in the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("pinchat needs an interactive terminal")
		}

		prefs := config.LoadPreferences()
		if err := applyFlags(cmd, &prefs); err != nil {
			return err
		}

		logger := config.NewLogger(prefs.LogLevel)
		defer logger.Close()

		st, err := store.OpenStore()
		if err != nil {
			return fmt.Errorf("opening credential store: %w", err)
		}
		defer st.Close()

		client := provider.NewOpenRouter(prefs.OpenRouterURL)
		logger.Printf("pinchat %s starting (surface=%s)", version, prefs.Surface)

		return tui.Run(tui.Options{
			Credentials:   st,
			Validator:     auth.BalanceValidator{Fetcher: client},
			Client:        client,
			Surface:       prefs.Surface,
			DismissDelay:  prefs.DismissDelay,
			Model:         prefs.Model,
			Logger:        logger,
			OnModelChange: saveModel(logger),
		})
	},
}

// applyFlags lays the one-off command-line overrides over prefs.
func applyFlags(cmd *cobra.Command, prefs *config.Preferences) error {
	if cmd.Flags().Changed("surface") {
		if err := prefs.Set("surface", surfaceFlag); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("dismiss-delay") {
		if err := prefs.Set("dismiss_delay", dismissDelayFlag); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("model") {
		if err := prefs.Set("model", modelFlag); err != nil {
			return err
		}
	}
	return nil
}

// saveModel persists model switches made from the chat view.
func saveModel(logger *config.Logger) func(string) {
	return func(id string) {
		prefs := config.LoadPreferences()
		if err := prefs.Set("model", id); err != nil {
			logger.Errorf("config: %v", err)
			return
		}
		if err := config.SavePreferences(prefs); err != nil {
			logger.Errorf("config: saving model: %v", err)
		}
	}
}

func init() {
	rootCmd.Flags().StringVar(&surfaceFlag, "surface", "", "Sign-in surface: overlay or panel")
	rootCmd.Flags().StringVar(&dismissDelayFlag, "dismiss-delay", "", "Delay before the overlay closes after sign-in (e.g. 500ms)")
	rootCmd.Flags().StringVar(&modelFlag, "model", "", "OpenRouter model ID (e.g. openai/gpt-4o-mini)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
