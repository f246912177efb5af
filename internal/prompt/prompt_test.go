package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rainwatch/internal/types"
)

func TestBuildIsDeterministic(t *testing.T) {
	s := "heavy clouds and distant thunder expected tonight"
	assert.Equal(t, Build(s), Build(s))
}

func TestBuildContainsSentenceAndLabels(t *testing.T) {
	for _, s := range []string{"", "sunny all day", "light drizzle\nin the morning"} {
		p := Build(s)

		assert.True(t, strings.HasSuffix(p, "Sentence: "+s), "prompt should end with the sentence")
		for _, l := range types.Labels() {
			assert.Contains(t, p, `"`+string(l)+`"`)
		}
	}
}

func TestBuildListsLabelsInPriorityOrder(t *testing.T) {
	p := Build("x")

	last := -1
	for _, l := range types.Labels() {
		i := strings.Index(p, `"`+string(l)+`"`)
		assert.Greater(t, i, last, "label %q out of order", l)
		last = i
	}
}

func TestBuildInstructions(t *testing.T) {
	p := Build("x")
	assert.Contains(t, p, "most serious condition")
	assert.Contains(t, p, "Return only the label, with no explanation.")
}
