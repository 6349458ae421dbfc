package formatter

import (
	"regexp"
	"strings"
)

// Speaker roles in a split transcript.
const (
	RoleAgent  = "assistant"
	RoleCaller = "user"
)

var (
	agentLabel  = regexp.MustCompile(`(?i)^(?:Agent|Representative|Rep|Operator|Receptionist)\s*:`)
	callerLabel = regexp.MustCompile(`(?i)^(?:Caller|Customer|Client|Speaker\s*\d*)\s*:`)
)

// Turn is one speaker's uninterrupted run of lines.
type Turn struct {
	Role string
	Text string
}

// Transcript is a raw transcript split for chat-style display.
// Context holds non-empty lines seen before the first speaker label.
type Transcript struct {
	Context []string
	Turns   []Turn
}

// SplitTranscript splits raw text on speaker labels. Agent-side labels become [RoleAgent] turns and
// caller-side labels [RoleCaller] turns; unlabelled lines continue the current turn.
func SplitTranscript(raw string) Transcript {
	var (
		out     Transcript
		role    string
		current []string
	)

	flush := func() {
		if role == "" || len(current) == 0 {
			return
		}
		if text := strings.TrimSpace(strings.Join(current, "\n")); text != "" {
			out.Turns = append(out.Turns, Turn{Role: role, Text: text})
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case agentLabel.MatchString(trimmed):
			flush()
			role = RoleAgent
			current = []string{strings.TrimSpace(agentLabel.ReplaceAllString(trimmed, ""))}
		case callerLabel.MatchString(trimmed):
			flush()
			role = RoleCaller
			current = []string{strings.TrimSpace(callerLabel.ReplaceAllString(trimmed, ""))}
		case role != "":
			current = append(current, line)
		case trimmed != "":
			out.Context = append(out.Context, trimmed)
		}
	}
	flush()

	return out
}
