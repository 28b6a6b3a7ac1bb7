package services

import (
	"strings"

	"github.com/clearday/clearday-api/internal/constants"
)

// Suggestion is one assistant proposal derived from the user's text.
type Suggestion struct {
	Title    string `json:"title"`
	Priority int    `json:"priority"`
}

// suggestionRule maps keywords to canned suggestions. The assistant is a
// fixed rule table, not a learned component; given the same text it always
// answers the same way.
type suggestionRule struct {
	keywords    []string
	suggestions []Suggestion
}

var suggestionRules = []suggestionRule{
	{
		keywords: []string{"meeting"},
		suggestions: []Suggestion{
			{Title: "Schedule team meeting for next week", Priority: constants.PriorityDefault},
			{Title: "Prepare agenda for client meeting", Priority: constants.PriorityDefault},
		},
	},
	{
		keywords: []string{"deadline", "due"},
		suggestions: []Suggestion{
			{Title: "Set reminder for project deadline", Priority: constants.PriorityDefault},
			{Title: "Break down deadline into smaller tasks", Priority: constants.PriorityDefault},
		},
	},
	{
		keywords: []string{"urgent", "important"},
		suggestions: []Suggestion{
			{Title: "Mark as high priority task", Priority: constants.PriorityMin},
			{Title: "Set immediate reminder", Priority: constants.PriorityMin},
		},
	},
	{
		keywords: []string{"call", "phone"},
		suggestions: []Suggestion{
			{Title: "Schedule phone call reminder", Priority: constants.PriorityDefault},
			{Title: "Prepare call notes", Priority: constants.PriorityDefault},
		},
	},
	{
		keywords: []string{"email"},
		suggestions: []Suggestion{
			{Title: "Draft email response", Priority: constants.PriorityDefault},
			{Title: "Follow up on email", Priority: constants.PriorityDefault},
		},
	},
}

var defaultSuggestions = []Suggestion{
	{Title: "Create task with due date", Priority: constants.PriorityDefault},
	{Title: "Set priority level", Priority: constants.PriorityDefault},
	{Title: "Add to project", Priority: constants.PriorityDefault},
}

// AssistantService turns free text into task suggestions via keyword rules.
type AssistantService struct{}

// NewAssistantService creates a new AssistantService
func NewAssistantService() *AssistantService {
	return &AssistantService{}
}

// Suggest scans the rule table in order and collects suggestions for every
// rule whose keyword appears in the text, capped at MaxSuggestions. Texts
// matching nothing get the default set.
func (s *AssistantService) Suggest(text string) []Suggestion {
	lower := strings.ToLower(text)

	var out []Suggestion
	for _, rule := range suggestionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, rule.suggestions...)
				break
			}
		}
	}

	if len(out) == 0 {
		out = append(out, defaultSuggestions...)
	}

	if len(out) > constants.MaxSuggestions {
		out = out[:constants.MaxSuggestions]
	}
	return out
}
