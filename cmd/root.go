// Package cmd implements the command-line interface for ythdp.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ythdp/ythdp/color"
	"github.com/ythdp/ythdp/constant"
	"github.com/ythdp/ythdp/icon"
	"github.com/ythdp/ythdp/key"
	"github.com/ythdp/ythdp/log"
	"github.com/ythdp/ythdp/style"
	"github.com/ythdp/ythdp/version"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("socket", "s", "", "Attach to the mpv IPC socket at this path")
	lo.Must0(viper.BindPFlag(key.PlayerSocket, rootCmd.Flags().Lookup("socket")))

	rootCmd.Flags().Bool("no-menu", false, "Do not show the interactive quality menu")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(context.Background())
	})
}

// rootCmd launches mpv on a URL, or attaches to a running instance, and keeps its quality pinned.
var rootCmd = &cobra.Command{
	Use:   constant.App + " [url]",
	Short: "Keep mpv playing YouTube at the highest quality you allow",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Keep mpv playing YouTube at the highest quality you allow"),
	Example: "  " + constant.App + " https://www.youtube.com/watch?v=aqz-KE-bpKQ\n" +
		"  " + constant.App + " --socket /tmp/mpv.sock",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		options := daemonOptions{
			NoMenu: lo.Must(cmd.Flags().GetBool("no-menu")),
		}
		if len(args) == 1 {
			options.URL = args[0]
		}

		handleErr(runDaemon(options))
	},
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
