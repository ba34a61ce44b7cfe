package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/assistant.txt
var assistantRaw string

// AssistantTemplate returns the embedded assistant prompt with the {history},
// {query} and {items} placeholders left in place.
func AssistantTemplate() string {
	return strings.TrimSpace(assistantRaw)
}
