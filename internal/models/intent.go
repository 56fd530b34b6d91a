package models

// Action is what an inbound message asks for.
type Action string

const (
	ActionSummarizeRepo          Action = "summarize_repo"
	ActionSummarizeLatestIssue   Action = "summarize_latest_issue"
	ActionSummarizeSpecificIssue Action = "summarize_specific_issue"
	ActionCreateRepo             Action = "create_repo"
	ActionCreateIssue            Action = "create_issue"
	ActionHelp                   Action = "help"
	ActionUnknown                Action = "unknown"
)

var knownActions = map[Action]bool{
	ActionSummarizeRepo:          true,
	ActionSummarizeLatestIssue:   true,
	ActionSummarizeSpecificIssue: true,
	ActionCreateRepo:             true,
	ActionCreateIssue:            true,
	ActionHelp:                   true,
	ActionUnknown:                true,
}

// ParseAction maps s to a known action, or ActionUnknown.
func ParseAction(s string) Action {
	a := Action(s)
	if knownActions[a] {
		return a
	}
	return ActionUnknown
}

// Intent is the parsed meaning of one inbound message. Only Action is
// guaranteed to be set.
type Intent struct {
	Action      Action `json:"action"`
	Repo        string `json:"repo,omitempty"`
	RepoName    string `json:"repo_name,omitempty"`
	Title       string `json:"title,omitempty"`
	Body        string `json:"body,omitempty"`
	IssueNumber int    `json:"issue_number,omitempty"`
}

// UnknownIntent is the intent used whenever extraction fails.
func UnknownIntent() Intent {
	return Intent{Action: ActionUnknown}
}
