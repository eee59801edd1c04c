package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInitialPrompt(t *testing.T) {
	prompt := BuildInitialPrompt("University of Oxford", "MSc Computer Science",
		"resume body", "sop body", "lor body")

	t.Run("embeds target and documents", func(t *testing.T) {
		assert.Contains(t, prompt, "TARGET UNIVERSITY: University of Oxford")
		assert.Contains(t, prompt, "TARGET PROGRAM: MSc Computer Science")
		assert.Contains(t, prompt, "resume body")
		assert.Contains(t, prompt, "sop body")
		assert.Contains(t, prompt, "lor body")
	})

	t.Run("carries the extractor heading contract", func(t *testing.T) {
		// sections.go anchors on these; the prompt must request them.
		assert.Contains(t, prompt, headingResumeEvaluation)
		assert.Contains(t, prompt, headingSOPEvaluation)
		assert.Contains(t, prompt, headingLOREvaluation)
		assert.Contains(t, prompt, headingOverall)
		assert.Equal(t, 3, strings.Count(prompt, headingAreas+":"))
	})

	t.Run("tolerates empty document text", func(t *testing.T) {
		p := BuildInitialPrompt("U", "P", "", "", "")
		assert.Contains(t, p, "RESUME:\n\n")
	})
}

func TestBuildReEvaluationPrompt(t *testing.T) {
	t.Run("embeds prior notes and revised documents", func(t *testing.T) {
		prompt := BuildReEvaluationPrompt("U", "P", "new resume", "new sop", "new lor", PriorNotes{
			Resume: "old resume advice",
			SOP:    "old sop advice",
			LOR:    "old lor advice",
		})

		assert.Contains(t, prompt, "PREVIOUS RESUME FEEDBACK:\nold resume advice")
		assert.Contains(t, prompt, "PREVIOUS SOP FEEDBACK:\nold sop advice")
		assert.Contains(t, prompt, "PREVIOUS LOR FEEDBACK:\nold lor advice")
		assert.Contains(t, prompt, "REVISED RESUME:\nnew resume")
		assert.Contains(t, prompt, "REVISED SOP:\nnew sop")
		assert.Contains(t, prompt, "REVISED LOR:\nnew lor")
	})

	t.Run("substitutes sentinel for absent prior notes", func(t *testing.T) {
		prompt := BuildReEvaluationPrompt("U", "P", "r", "s", "l", PriorNotes{
			SOP: "only sop advice",
		})

		assert.Contains(t, prompt, "PREVIOUS RESUME FEEDBACK:\n"+noPriorFeedback)
		assert.Contains(t, prompt, "PREVIOUS SOP FEEDBACK:\nonly sop advice")
		assert.Contains(t, prompt, "PREVIOUS LOR FEEDBACK:\n"+noPriorFeedback)
	})

	t.Run("requests the remaining-issues block", func(t *testing.T) {
		prompt := BuildReEvaluationPrompt("U", "P", "r", "s", "l", PriorNotes{})
		assert.Contains(t, prompt, "### "+headingRemainingIssues)
	})
}
