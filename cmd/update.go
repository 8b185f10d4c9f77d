package cmd

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ythdp/ythdp/icon"
	"github.com/ythdp/ythdp/key"
	"github.com/ythdp/ythdp/open"
	"github.com/ythdp/ythdp/util"
	"github.com/ythdp/ythdp/version"
)

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolP("yes", "y", false, "Open the download page without asking")
}

// updateCmd checks the release manifest right away, bypassing the cached result.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a new release",
	Run: func(cmd *cobra.Command, args []string) {
		erase := util.PrintErasable(icon.Get(icon.Progress) + " Checking for updates...")
		outcome := version.Check(cmd.Context(), viper.GetString(key.UpdateManifestURL), false)
		erase()

		version.Print(outcome)
		if outcome.Status != version.Available {
			return
		}

		confirmed := lo.Must(cmd.Flags().GetBool("yes"))
		if !confirmed && util.IsInteractive() {
			prompt := &survey.Confirm{
				Message: "Open the download page?",
				Default: true,
			}
			handleErr(survey.AskOne(prompt, &confirmed))
		}

		if confirmed {
			handleErr(open.Start(viper.GetString(key.UpdateDownloadURL)))
		}
	},
}
