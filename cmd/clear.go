package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/ythdp/ythdp/icon"
	"github.com/ythdp/ythdp/util"
	"github.com/ythdp/ythdp/where"
)

// clearable is a file or directory that can be removed without breaking the daemon.
// The temp directory is left alone because it holds the default player socket.
type clearable struct {
	name  string
	flag  string
	short mo.Option[string]
	path  func() string
}

var clearables = []clearable{
	{"update check cache", "cache", mo.Some("c"), where.Version},
	{"quality settings", "settings", mo.Some("s"), where.Settings},
	{"config file", "config", mo.None[string](), configFilePath},
	{"logs", "logs", mo.Some("l"), where.Logs},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, c := range clearables {
		help := fmt.Sprintf("Remove the %s", c.name)
		if short, ok := c.short.Get(); ok {
			clearCmd.Flags().BoolP(c.flag, short, false, help)
		} else {
			clearCmd.Flags().Bool(c.flag, false, help)
		}
	}
	clearCmd.Flags().BoolP("all", "a", false, "Remove everything listed above")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached, saved or logged state",
	Long: "Remove cached, saved or logged state.\n" +
		"Cleared settings and config fall back to their defaults on the next start.",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		selected := lo.Filter(clearables, func(c clearable, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(c.flag))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, c := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Removing %s...", icon.Get(icon.Progress), c.name))
			err := util.Delete(c.path())
			erase()
			if err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(c.name))
		}
	},
}
