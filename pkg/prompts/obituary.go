// Package prompts builds the provider prompts for text generation.
package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finalspaces/finalspaces-engine/pkg/jsonutil"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

// ObituarySystemMessage frames the generation task for every provider.
const ObituarySystemMessage = "You are a compassionate obituary writer. " +
	"Write a warm, respectful obituary in flowing prose from the details provided. " +
	"Do not invent facts that were not given."

// BuildObituary renders the entry and the form snapshot into the provider
// prompt. Snapshot fields are emitted in stable order so a given input
// always yields the same prompt.
func BuildObituary(entry *models.Deceased, input models.JSONBMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write an obituary for %s.\n", entry.Name)
	fmt.Fprintf(&b, "Born: %s\n", entry.BirthDate)
	fmt.Fprintf(&b, "Died: %s\n", entry.DeathDate)
	if entry.BirthLocation != "" {
		fmt.Fprintf(&b, "Birthplace: %s\n", entry.BirthLocation)
	}

	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := input[k]
		if jsonutil.IsEmpty(v) {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", k, jsonutil.Stringify(v))
	}

	return b.String()
}
