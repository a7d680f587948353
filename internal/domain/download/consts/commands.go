// Package consts contains constants for the download domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandDownload  = Command{Name: "!t", Description: "Download a TikTok video: !t <url>"}
	CommandHelp      = Command{Name: "!help", Description: "Show help message"}
	CommandHelpShort = Command{Name: "!h", Description: "Show help message"}
	CommandStats     = Command{Name: "!stats", Description: "Show global bot statistics"}
	CommandMyStats   = Command{Name: "!mystats", Description: "Show your personal statistics"}
	CommandInfo      = Command{Name: "!info", Description: "Show bot information"}
)

// AllCommands contains all available bot commands
var AllCommands = []Command{
	CommandDownload,
	CommandHelp,
	CommandHelpShort,
	CommandStats,
	CommandMyStats,
	CommandInfo,
}
