package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// Resolution is the outcome of resolving one piece of user text. Params are
// returned directly so resolution stays a pure function; nothing is shared
// with the dispatcher.
type Resolution struct {
	Type       CommandType
	Params     map[string]string
	ForceFresh bool
	Suggestion string
}

// refreshPrefixes are the reserved tokens that strip off the front of a query
// and force a cache bypass for the remainder
var refreshPrefixes = []string{"refresh ", "fresh "}

// paramPattern is one ordered parameterized pattern. More specific patterns
// must precede generic ones so a generic pattern never shadows one that
// extracts parameters.
type paramPattern struct {
	re    *regexp.Regexp
	cmd   CommandType
	param string
}

var paramPatterns = []paramPattern{
	{regexp.MustCompile(`(?i)^diagnose\s+(.+)$`), CmdDiagnose, "campaign"},
	{regexp.MustCompile(`(?i)^(?:what'?s wrong with|why is)\s+(.+?)(?:\s+(?:failing|underperforming))?\??$`), CmdDiagnose, "campaign"},
	{regexp.MustCompile(`(?i)^check\s+([^\s@]+@[^\s@]+\.[^\s@]+)$`), CmdCheckEmail, "email"},
	{regexp.MustCompile(`(?i)^(?:inbox|account)\s+([^\s@]+@[^\s@]+\.[^\s@]+)$`), CmdCheckEmail, "email"},
	{regexp.MustCompile(`(?i)^(?:tag|tagged)\s+(.+)$`), CmdTagReport, "tag"},
	{regexp.MustCompile(`(?i)^(?:how is|how'?s)\s+(.+?)\s+doing\??$`), CmdCampaignStatus, "campaign"},
	{regexp.MustCompile(`(?i)^status\s+(?:of\s+|for\s+)?(.+)$`), CmdCampaignStatus, "campaign"},
}

// fuzzyPattern is a broad keyword pattern with an explicit priority. When
// several fuzzy patterns match, the lowest priority number wins; priorities
// are unique so overlapping matches can never tie.
type fuzzyPattern struct {
	re       *regexp.Regexp
	cmd      CommandType
	priority int
}

var fuzzyPatterns = []fuzzyPattern{
	{regexp.MustCompile(`(?i)\b(?:low|out of|need(?:s)?|running out).*\b(?:leads?|lists?)\b`), CmdLowLeads, 10},
	{regexp.MustCompile(`(?i)\b(?:tasks?|todos?|to-?dos?)\b.*\bweek`), CmdWeeklyTasks, 15},
	{regexp.MustCompile(`(?i)\b(?:tasks?|todos?|to-?dos?)\b`), CmdDailyTasks, 16},
	{regexp.MustCompile(`(?i)\b(?:inbox(?:es)?|mailbox(?:es)?|deliverability|warmup|health score)\b`), CmdInboxHealth, 20},
	{regexp.MustCompile(`(?i)\bclients?\b`), CmdClientHealth, 25},
	{regexp.MustCompile(`(?i)\b(?:campaigns?|overview|performance|performing|doing)\b`), CmdOverview, 30},
	{regexp.MustCompile(`(?i)\b(?:help|command)\b`), CmdHelp, 40},
}

// FuzzyPriorities exposes the fuzzy pattern priorities for ambiguity tests
func FuzzyPriorities() []int {
	out := make([]int, len(fuzzyPatterns))
	for i, p := range fuzzyPatterns {
		out[i] = p.priority
	}
	return out
}

// Resolve maps raw user text to a canonical command. Resolution order:
// refresh prefix, exact alias, parameterized patterns, fuzzy keyword
// patterns, question heuristics, unknown. Never errors; empty or
// unrecognized input resolves to unknown with a suggestion.
func Resolve(text string) Resolution {
	original := trimInput(text)
	normalized := Normalize(text)

	if normalized == "" {
		return unknown(normalized)
	}

	// Refresh prefix: strip the token, resolve the remainder, flag fresh
	for _, prefix := range refreshPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			res := Resolve(original[len(prefix):])
			res.ForceFresh = true
			return res
		}
	}
	if strings.HasPrefix(normalized, "!") {
		res := Resolve(strings.TrimPrefix(original, "!"))
		res.ForceFresh = true
		return res
	}

	if cmd, ok := aliases[normalized]; ok {
		return Resolution{Type: cmd, Params: map[string]string{}}
	}

	for _, p := range paramPatterns {
		if match := p.re.FindStringSubmatch(original); match != nil {
			return Resolution{
				Type:   p.cmd,
				Params: map[string]string{p.param: strings.TrimSpace(match[1])},
			}
		}
	}

	if res, ok := matchFuzzy(normalized); ok {
		return res
	}

	if strings.Contains(normalized, "?") {
		if res, ok := questionHeuristic(normalized); ok {
			return res
		}
	}

	return unknown(normalized)
}

// matchFuzzy returns the matching fuzzy pattern with the best (lowest)
// priority
func matchFuzzy(normalized string) (Resolution, bool) {
	best := -1
	for i, p := range fuzzyPatterns {
		if !p.re.MatchString(normalized) {
			continue
		}
		if best == -1 || p.priority < fuzzyPatterns[best].priority {
			best = i
		}
	}
	if best == -1 {
		return Resolution{}, false
	}
	return Resolution{Type: fuzzyPatterns[best].cmd, Params: map[string]string{}}, true
}

// questionHeuristic infers intent from domain keywords when the text is a
// question the layered patterns missed
func questionHeuristic(normalized string) (Resolution, bool) {
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(normalized, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("lead", "list", "runway"):
		return Resolution{Type: CmdLowLeads, Params: map[string]string{}}, true
	case has("inbox", "mailbox", "deliverab", "warmup"):
		return Resolution{Type: CmdInboxHealth, Params: map[string]string{}}, true
	case has("client"):
		return Resolution{Type: CmdClientHealth, Params: map[string]string{}}, true
	case has("task", "today", "do next"):
		return Resolution{Type: CmdDailyTasks, Params: map[string]string{}}, true
	case has("campaign", "doing", "perform"):
		return Resolution{Type: CmdOverview, Params: map[string]string{}}, true
	}
	return Resolution{}, false
}

// unknown builds the fallback resolution with a did-you-mean suggestion
func unknown(normalized string) Resolution {
	return Resolution{
		Type:       CmdUnknown,
		Params:     map[string]string{},
		Suggestion: suggest(normalized),
	}
}

// suggest picks the alias phrase sharing the most words with the input.
// Falls back to pointing at help.
func suggest(normalized string) string {
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return `Try "help" to see what I can answer.`
	}

	inputWords := make(map[string]bool, len(words))
	for _, w := range words {
		inputWords[w] = true
	}

	bestScore := 0
	bestPhrase := ""
	for _, phrase := range aliasPhrases() {
		score := 0
		for _, w := range strings.Fields(phrase) {
			if inputWords[w] {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && phrase < bestPhrase) {
			bestScore = score
			bestPhrase = phrase
		}
	}

	if bestScore == 0 {
		return `Try "help" to see what I can answer.`
	}
	return fmt.Sprintf("Did you mean %q?", bestPhrase)
}
