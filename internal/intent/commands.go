package intent

// CommandType identifies one canonical action the dispatcher can execute
type CommandType string

const (
	CmdOverview       CommandType = "overview"
	CmdCampaignStatus CommandType = "campaign_status"
	CmdDiagnose       CommandType = "diagnose"
	CmdLowLeads       CommandType = "low_leads"
	CmdCheckEmail     CommandType = "check_email"
	CmdTagReport      CommandType = "tag_report"
	CmdClientHealth   CommandType = "client_health"
	CmdInboxHealth    CommandType = "inbox_health"
	CmdDailyTasks     CommandType = "daily_tasks"
	CmdWeeklyTasks    CommandType = "weekly_tasks"
	CmdHelp           CommandType = "help"
	CmdUnknown        CommandType = "unknown"
)

// aliases maps exact (normalized) phrases to commands. Checked before any
// pattern matching, O(1).
var aliases = map[string]CommandType{
	"overview":                   CmdOverview,
	"o":                          CmdOverview,
	"status":                     CmdOverview,
	"dashboard":                  CmdOverview,
	"how are my campaigns doing": CmdOverview,
	"campaign overview":          CmdOverview,

	"low leads":        CmdLowLeads,
	"leads":            CmdLowLeads,
	"lead runway":      CmdLowLeads,
	"which need lists": CmdLowLeads,

	"client health": CmdClientHealth,
	"clients":       CmdClientHealth,

	"inbox health":   CmdInboxHealth,
	"inboxes":        CmdInboxHealth,
	"accounts":       CmdInboxHealth,
	"deliverability": CmdInboxHealth,

	"tasks":        CmdDailyTasks,
	"daily tasks":  CmdDailyTasks,
	"d":            CmdDailyTasks,
	"today":        CmdDailyTasks,
	"weekly tasks": CmdWeeklyTasks,
	"w":            CmdWeeklyTasks,
	"this week":    CmdWeeklyTasks,

	"help":     CmdHelp,
	"h":        CmdHelp,
	"commands": CmdHelp,
	"?":        CmdHelp,
}

// aliasPhrases returns the known alias phrases longer than one word,
// used for did-you-mean suggestions
func aliasPhrases() []string {
	phrases := make([]string, 0, len(aliases))
	for phrase := range aliases {
		if len(phrase) > 1 {
			phrases = append(phrases, phrase)
		}
	}
	return phrases
}
