// Package cmd implements the command-line interface for mediasurface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mediasurface/mediasurface/constant"
	"github.com/mediasurface/mediasurface/icon"
	"github.com/mediasurface/mediasurface/key"
	"github.com/mediasurface/mediasurface/log"
	"github.com/mediasurface/mediasurface/player"
	"github.com/mediasurface/mediasurface/style"
	"github.com/mediasurface/mediasurface/tui"
	"github.com/mediasurface/mediasurface/util"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("engine", "E", "", "Select the media engine backend (mpv, sim)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("engine", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Backends, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.EngineBackend, rootCmd.PersistentFlags().Lookup("engine")))

	rootCmd.Flags().IntP("volume", "V", 0, "Initial volume in percent")
	lo.Must0(viper.BindPFlag(key.PlayerVolume, rootCmd.Flags().Lookup("volume")))

	rootCmd.Flags().Bool("headless", false, "Print status lines instead of opening the control panel")
}

// rootCmd plays a single source on the configured engine.
var rootCmd = &cobra.Command{
	Use:   constant.App + " [source]",
	Short: "A terminal control surface for callback-driven media engines",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(style.Red).Render("    - A terminal control surface for callback-driven media engines"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		var source string
		if len(args) > 0 {
			source = args[0]
		} else {
			source = askSource()
		}

		CheckDependencies()

		e, err := player.NewEngine()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("headless")) || !util.IsTerminal() {
			handleErr(playHeadless(e, source))
			return
		}

		handleErr(tui.Run(e, &tui.Options{Source: source}))
	},
}

func askSource() string {
	if !util.IsTerminal() {
		handleErr(errors.New("source is required when not attached to a terminal"))
	}

	input := survey.Input{
		Message: "Source to play:",
		Help:    "A file path or an http(s) URL",
	}
	var response string
	handleErr(survey.AskOne(&input, &response, survey.WithValidator(survey.Required)))

	return strings.TrimSpace(response)
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
