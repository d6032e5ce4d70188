package llm

import _ "embed"

var (
	//go:embed prompts/meeting_type.txt
	promptMeetingType string
	//go:embed prompts/summary_discovery.txt
	promptSummaryDiscovery string
	//go:embed prompts/summary_consulting.txt
	promptSummaryConsulting string
	//go:embed prompts/follow_up_email.txt
	promptFollowUpEmail string
	//go:embed prompts/short_form_scripts.txt
	promptShortFormScripts string
)

func summaryPrompt(kind MeetingKind) string {
	if kind == MeetingKindDiscovery {
		return promptSummaryDiscovery
	}
	return promptSummaryConsulting
}
