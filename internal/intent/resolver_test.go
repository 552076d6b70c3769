package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAliases(t *testing.T) {
	tests := []struct {
		input string
		want  CommandType
	}{
		{"overview", CmdOverview},
		{"o", CmdOverview},
		{"OVERVIEW", CmdOverview},
		{"  status  ", CmdOverview},
		{"how are my campaigns doing", CmdOverview},
		{"low leads", CmdLowLeads},
		{"which need lists", CmdLowLeads},
		{"client health", CmdClientHealth},
		{"inbox health", CmdInboxHealth},
		{"deliverability", CmdInboxHealth},
		{"d", CmdDailyTasks},
		{"today", CmdDailyTasks},
		{"w", CmdWeeklyTasks},
		{"this week", CmdWeeklyTasks},
		{"help", CmdHelp},
		{"?", CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Resolve(tt.input)
			assert.Equal(t, tt.want, res.Type)
			assert.Empty(t, res.Params)
			assert.False(t, res.ForceFresh)
		})
	}
}

func TestResolveParamPatterns(t *testing.T) {
	tests := []struct {
		input string
		want  CommandType
		key   string
		value string
	}{
		{"diagnose Acme Corp", CmdDiagnose, "campaign", "Acme Corp"},
		{"what's wrong with Acme Corp", CmdDiagnose, "campaign", "Acme Corp"},
		{"why is Globex failing?", CmdDiagnose, "campaign", "Globex"},
		{"check bob@acme.com", CmdCheckEmail, "email", "bob@acme.com"},
		{"inbox sales@globex.io", CmdCheckEmail, "email", "sales@globex.io"},
		{"tag us-east", CmdTagReport, "tag", "us-east"},
		{"tagged acme", CmdTagReport, "tag", "acme"},
		{"how is Acme Corp doing?", CmdCampaignStatus, "campaign", "Acme Corp"},
		{"status of Acme Corp", CmdCampaignStatus, "campaign", "Acme Corp"},
		{"status for Globex", CmdCampaignStatus, "campaign", "Globex"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Resolve(tt.input)
			require.Equal(t, tt.want, res.Type)
			assert.Equal(t, tt.value, res.Params[tt.key])
		})
	}
}

func TestResolvePreservesParamCasing(t *testing.T) {
	res := Resolve("  diagnose   Acme CORP  ")
	require.Equal(t, CmdDiagnose, res.Type)
	assert.Equal(t, "Acme CORP", res.Params["campaign"])
}

func TestResolveRefreshPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  CommandType
	}{
		{"refresh overview", CmdOverview},
		{"fresh inbox health", CmdInboxHealth},
		{"!d", CmdDailyTasks},
		{"refresh diagnose Acme Corp", CmdDiagnose},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Resolve(tt.input)
			assert.Equal(t, tt.want, res.Type)
			assert.True(t, res.ForceFresh)
		})
	}

	// Without the prefix nothing forces freshness
	assert.False(t, Resolve("overview").ForceFresh)
}

func TestResolveRefreshKeepsParams(t *testing.T) {
	res := Resolve("refresh diagnose Acme Corp")
	require.Equal(t, CmdDiagnose, res.Type)
	assert.True(t, res.ForceFresh)
	assert.Equal(t, "Acme Corp", res.Params["campaign"])
}

func TestResolveFuzzy(t *testing.T) {
	tests := []struct {
		input string
		want  CommandType
	}{
		{"we are running out of leads", CmdLowLeads},
		{"which campaigns need new lists", CmdLowLeads},
		{"any tasks for me", CmdDailyTasks},
		{"tasks for the week ahead", CmdWeeklyTasks},
		{"show me mailbox problems", CmdInboxHealth},
		{"how are the clients", CmdClientHealth},
		{"campaign performance please", CmdOverview},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Resolve(tt.input)
			assert.Equal(t, tt.want, res.Type)
		})
	}
}

func TestResolveFuzzyPrioritiesUnique(t *testing.T) {
	seen := make(map[int]bool)
	for _, p := range FuzzyPriorities() {
		assert.False(t, seen[p], "duplicate fuzzy priority %d", p)
		seen[p] = true
	}
}

func TestResolveQuestionHeuristic(t *testing.T) {
	tests := []struct {
		input string
		want  CommandType
	}{
		{"how much runway is left?", CmdLowLeads},
		{"is warmup on everywhere?", CmdInboxHealth},
		{"any client in trouble?", CmdClientHealth},
		{"what should i do next?", CmdDailyTasks},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Resolve(tt.input)
			assert.Equal(t, tt.want, res.Type)
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	res := Resolve("xyzzy frobnicate")
	assert.Equal(t, CmdUnknown, res.Type)
	assert.Contains(t, res.Suggestion, "help")

	empty := Resolve("   ")
	assert.Equal(t, CmdUnknown, empty.Type)
	assert.NotEmpty(t, empty.Suggestion)
}

func TestResolveSuggestsClosestPhrase(t *testing.T) {
	res := Resolve("which lists")
	require.Equal(t, CmdUnknown, res.Type)
	assert.Contains(t, res.Suggestion, "which need lists")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "low leads", Normalize("  Low    LEADS  "))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "a b c", Normalize("a\tb\nc"))
}
