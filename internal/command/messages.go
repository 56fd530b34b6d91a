package command

const (
	MsgUnknown = "Unrecognized command. Text 'help' for available options."

	MsgHelp = "Available commands:\n" +
		"- summarize owner/repo\n" +
		"- summarize owner/repo issue [#]"

	MsgCreateIssueUsage = "Usage: create issue <repo> <title> -- <body>"
	MsgInvalidRepoRef   = "Invalid format. Use <owner>/<repo>"

	MsgRepoFailed        = "Could not summarize that repo."
	MsgLatestIssueFailed = "Could not summarize the latest issue."
	MsgIssueFailed       = "Could not summarize issue."
	MsgRepoNotFound      = "Could not find repo."
	MsgNoIssues          = "No issues found."

	MsgRepoCreated       = "Created repo."
	MsgRepoCreateFailed  = "Failed to create repo."
	MsgIssueCreated      = "Issue created."
	MsgIssueCreateFailed = "Failed to create issue."
)
