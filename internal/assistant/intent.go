// Package assistant implements the chat-facing side of the reasoning
// engine: intent detection over free text, the pending-decision round-trip,
// and the assignment conversation state machine.
package assistant

import (
	"regexp"
	"strings"
)

// AssignIntent is a parsed assignment request from a chat message.
type AssignIntent struct {
	// IssueKey is the referenced issue key, upper-cased.
	IssueKey string
	// Assignee is the explicitly named assignee, empty when the message
	// asks for a recommendation instead.
	Assignee string
}

// intentRule pairs a pattern with an extractor. Rules are evaluated in
// order and the first match wins, so more specific phrasings come first.
type intentRule struct {
	pattern *regexp.Regexp
	extract func(groups []string) AssignIntent
}

const issueKeyPattern = `([A-Za-z][A-Za-z0-9]*-[0-9]+)`

// assignRules covers the constrained set of assignment phrasings the
// assistant understands. Anything else falls through to the LLM responder.
var assignRules = []intentRule{
	// "assign task PN2-7 to Varad", "please assign PN2-7 to Varad Parte"
	{
		pattern: regexp.MustCompile(`(?i)\bassign\s+(?:task\s+)?` + issueKeyPattern + `\s+to\s+(.+)$`),
		extract: func(groups []string) AssignIntent {
			return AssignIntent{
				IssueKey: strings.ToUpper(groups[1]),
				Assignee: strings.TrimRight(strings.TrimSpace(groups[2]), ".!?"),
			}
		},
	},
	// "whom should I assign PN2-7", "who should we assign task PN2-7 to"
	{
		pattern: regexp.MustCompile(`(?i)\bwho(?:m)?\s+(?:should|can|do)\s+(?:i|we)\s+assign\s+(?:task\s+)?` + issueKeyPattern),
		extract: func(groups []string) AssignIntent {
			return AssignIntent{IssueKey: strings.ToUpper(groups[1])}
		},
	},
	// "who should work on PN2-7", "suggest an assignee for PN2-7"
	{
		pattern: regexp.MustCompile(`(?i)\b(?:who\s+should\s+work\s+on|suggest\s+(?:an?\s+)?assignee\s+for)\s+(?:task\s+)?` + issueKeyPattern),
		extract: func(groups []string) AssignIntent {
			return AssignIntent{IssueKey: strings.ToUpper(groups[1])}
		},
	},
	// "assign PN2-7" with no assignee: recommend one.
	{
		pattern: regexp.MustCompile(`(?i)\bassign\s+(?:task\s+)?` + issueKeyPattern + `\s*$`),
		extract: func(groups []string) AssignIntent {
			return AssignIntent{IssueKey: strings.ToUpper(groups[1])}
		},
	},
}

// DetectAssignIntent matches the message against the assignment rule table.
// The second return is false when no rule matches.
func DetectAssignIntent(message string) (AssignIntent, bool) {
	for _, rule := range assignRules {
		if groups := rule.pattern.FindStringSubmatch(message); groups != nil {
			return rule.extract(groups), true
		}
	}
	return AssignIntent{}, false
}

// confirmationTokens are matched at the start of a trimmed message,
// case-insensitively, to detect "go ahead" style replies.
var confirmationTokens = []string{
	"yes",
	"yep",
	"yeah",
	"ok",
	"okay",
	"sure",
	"proceed",
	"confirm",
	"confirmed",
	"do it",
	"assign it",
	"go ahead",
	"sounds good",
}

// IsConfirmation reports whether the message opens with a confirmation
// token. Only the leading token counts: "yes, assign it" confirms while
// "I don't think yes" does not.
func IsConfirmation(message string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(message))
	for _, token := range confirmationTokens {
		if trimmed == token {
			return true
		}
		if strings.HasPrefix(trimmed, token) {
			rest := trimmed[len(token):]
			if len(rest) > 0 && !isWordChar(rest[0]) {
				return true
			}
		}
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// assigneeFromPrior extracts an assignee name from a prior turn's text so
// a bare confirmation can still resolve who was meant when the caller lost
// the echoed decision.
var assigneeFromPriorPattern = regexp.MustCompile(`(?i)\bassign\s+(?:task\s+)?` + issueKeyPattern + `\s+to\s+([^.!?\n]+)`)

// AssignmentFromText pulls an issue key and assignee name out of prior
// turn content. Returns false when the text names neither.
func AssignmentFromText(text string) (AssignIntent, bool) {
	groups := assigneeFromPriorPattern.FindStringSubmatch(text)
	if groups == nil {
		return AssignIntent{}, false
	}
	return AssignIntent{
		IssueKey: strings.ToUpper(groups[1]),
		Assignee: strings.TrimSpace(groups[2]),
	}, true
}
