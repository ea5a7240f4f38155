package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cspend",
		Short:         "Cursor spend tracker (cspend): monthly usage, currency conversion and spending alerts",
		Long:          "cspend signs in to your Cursor account, reads this month's usage-based invoice, converts it to your currency and warns you when spending crosses your limits.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newWatchCmd(app),
		newSettingsCmd(app),
		newRatesCmd(app),
	)

	return rootCmd
}
