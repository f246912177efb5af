// Package prompt builds the instruction sent to the model for one sentence.
package prompt

import (
	"strings"

	"rainwatch/internal/types"
)

// Build embeds sentence in the classification instruction. It is pure: the
// same sentence always yields the same prompt, and every label is listed in
// priority order. An empty sentence is accepted.
func Build(sentence string) string {
	quoted := make([]string, 0, len(types.Labels()))
	for _, l := range types.Labels() {
		quoted = append(quoted, `"`+string(l)+`"`)
	}

	var b strings.Builder
	b.WriteString("Classify the following weather forecast sentence into exactly one of these labels: ")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(".\n")
	b.WriteString("If the sentence implies more than one condition, choose the most serious condition.\n")
	b.WriteString("Return only the label, with no explanation.\n\n")
	b.WriteString("Sentence: ")
	b.WriteString(sentence)
	return b.String()
}
