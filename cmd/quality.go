package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ythdp/ythdp/color"
	"github.com/ythdp/ythdp/icon"
	"github.com/ythdp/ythdp/player"
	"github.com/ythdp/ythdp/quality"
	"github.com/ythdp/ythdp/settings"
	"github.com/ythdp/ythdp/style"
	"github.com/ythdp/ythdp/util"
)

func completionQualities(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(quality.IDs(), func(id quality.ID, _ int) string {
		return string(id)
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}

// qualityCmd groups the commands that read and change the target quality.
var qualityCmd = &cobra.Command{
	Use:     "quality",
	Aliases: []string{"q"},
	Short:   "Inspect and change the target quality",
}

func init() {
	qualityCmd.AddCommand(qualityListCmd)
	qualityListCmd.Flags().BoolP("player", "p", false, "List what the running player offers instead of the catalog")
	qualityListCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	qualityListCmd.SetOut(os.Stdout)
}

var qualityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the qualities that can be targeted",
	Run: func(cmd *cobra.Command, args []string) {
		asJson := lo.Must(cmd.Flags().GetBool("json"))

		if lo.Must(cmd.Flags().GetBool("player")) {
			offers := playerOffers(cmd.Context())
			if asJson {
				handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(offers))
				return
			}

			for _, offer := range offers {
				line := fmt.Sprintf("%-8s %s", offer.ID, offer.Label)
				if offer.Premium {
					line += " " + style.Fg(color.Yellow)("premium")
				}
				if !offer.Playable {
					line = style.Faint(line)
				}
				cmd.Println(line)
			}
			return
		}

		target := newSettingsService().Load(cmd.Context()).TargetQuality
		if asJson {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(quality.IDs()))
			return
		}

		for _, id := range quality.IDs() {
			line := quality.Describe(id)
			if id == target {
				line = style.Fg(color.Green)(line) + " " + icon.Get(icon.Check)
			}
			cmd.Println(line)
		}
	},
}

func playerOffers(ctx context.Context) []player.QualityOffer {
	locator := &player.SocketLocator{Path: socketPath()}

	p, err := locator.Locate(ctx)
	handleErr(err)

	offers, err := p.ListQualityOffers()
	handleErr(err)

	return offers
}

func init() {
	qualityCmd.AddCommand(qualitySetCmd)
}

var qualitySetCmd = &cobra.Command{
	Use:               "set [quality]",
	Short:             "Set the target quality",
	Long:              "Set the target quality. A running daemon picks the change up right away.",
	Example:           "  ythdp quality set 4k",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionQualities,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := quality.Parse(args[0])
		handleErr(err)

		svc := newSettingsService()
		svc.Load(cmd.Context())
		handleErr(svc.Update(cmd.Context(), settings.FieldTargetQuality, id))

		fmt.Printf(
			"%s target quality set to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Yellow)(quality.Describe(id)),
		)
	},
}

func init() {
	qualityCmd.AddCommand(qualityGetCmd)
	qualityGetCmd.Flags().BoolP("current", "c", false, "Show what the running player is playing instead")
	qualityGetCmd.SetOut(os.Stdout)
}

var qualityGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the target quality",
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("current")) {
			cmd.Println(newSettingsService().Load(cmd.Context()).TargetQuality)
			return
		}

		locator := &player.SocketLocator{Path: socketPath()}
		p, err := locator.Locate(cmd.Context())
		handleErr(err)

		id, err := p.CurrentQualityID()
		handleErr(err)
		label, err := p.CurrentQualityLabel()
		handleErr(err)

		offers, err := p.ListQualityOffers()
		handleErr(err)

		cmd.Printf("%s %s\n", id, style.Faint(fmt.Sprintf("(%s, %s offered)", label, util.Quantify(len(offers), "variant", "variants"))))
	},
}
