package cli

func regCommands() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(serveCmd)
}
