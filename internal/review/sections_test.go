package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initialReply = `Here is my evaluation.

---
### RESUME EVALUATION

**STRENGTHS:**
- Solid project section.

**AREAS_OF_IMPROVEMENT:**
- Fix formatting.
- Add metrics.

**SCORES:**
ATS_SCORE: 70/100
TECHNICAL_RELEVANCE_SCORE: 72/100
PRESENTATION_SCORE: 68/100

---
### SOP EVALUATION

**STRENGTHS:**
- Clear motivation.

**AREAS_OF_IMPROVEMENT:**
- Name specific professors.
- Replace the generic opening.

**SCORE:**
SOP_SCORE: 65/100

---
### LOR EVALUATION

**STRENGTHS:**
- Credible recommender.

**AREAS_OF_IMPROVEMENT:**
- Add comparative statements.

**SCORE:**
LOR_SCORE: 60/100

---
### OVERALL ASSESSMENT

**PROFILE_SUMMARY:**
A promising profile with fixable weaknesses.
`

func TestExtractInitialNotes(t *testing.T) {
	t.Run("splits all three sections", func(t *testing.T) {
		notes := ExtractInitialNotes(initialReply)

		assert.Equal(t, "Fix formatting.\nAdd metrics.", notes.Resume)
		assert.Equal(t, "Name specific professors.\nReplace the generic opening.", notes.SOP)
		assert.Equal(t, "Add comparative statements.", notes.LOR)
	})

	t.Run("joins continuation lines into the preceding bullet", func(t *testing.T) {
		reply := `### RESUME EVALUATION

**AREAS_OF_IMPROVEMENT:**
- Issue: vague summary.
Suggestion: quantify impact.
Why: stronger signal.
- Issue: missing skills.
Suggestion: add a skills table.

**SCORES:**
ATS_SCORE: 50/100

### SOP EVALUATION
### LOR EVALUATION
### OVERALL ASSESSMENT
`
		notes := ExtractInitialNotes(reply)

		// A 3-line bullet followed by a 2-line bullet must yield exactly
		// two items, each internally space-joined.
		assert.Equal(t,
			"Issue: vague summary. Suggestion: quantify impact. Why: stronger signal.\n"+
				"Issue: missing skills. Suggestion: add a skills table.",
			notes.Resume)
	})

	t.Run("blank lines between bullets are skipped", func(t *testing.T) {
		reply := `### RESUME EVALUATION

AREAS_OF_IMPROVEMENT:
- First item.

- Second item.

### SOP EVALUATION
### LOR EVALUATION
### OVERALL ASSESSMENT
`
		notes := ExtractInitialNotes(reply)
		assert.Equal(t, "First item.\nSecond item.", notes.Resume)
	})

	t.Run("reply with no headings and no bullets yields empty strings", func(t *testing.T) {
		notes := ExtractInitialNotes("I cannot evaluate these documents.")
		assert.Equal(t, "", notes.Resume)
		assert.Equal(t, "", notes.SOP)
		assert.Equal(t, "", notes.LOR)
	})

	t.Run("empty reply yields empty strings", func(t *testing.T) {
		notes := ExtractInitialNotes("")
		assert.Equal(t, Notes{}, notes)
	})

	t.Run("loose per-document fallback", func(t *testing.T) {
		// No ### headings at all, but a labeled line per document.
		reply := `RESUME AREAS_OF_IMPROVEMENT:
- Trim to one page.

SOP AREAS_OF_IMPROVEMENT:
- Cut the cliches.
`
		notes := ExtractInitialNotes(reply)
		assert.Contains(t, notes.Resume, "Trim to one page.")
		assert.Contains(t, notes.SOP, "Cut the cliches.")
	})

	t.Run("bullet scrape fallback collects top-level bullets", func(t *testing.T) {
		reply := `Some freeform commentary.
- Add metrics.
- Mention faculty.
`
		notes := ExtractInitialNotes(reply)
		assert.Equal(t, "Add metrics.\nMention faculty.", notes.Resume)
		assert.Equal(t, "Add metrics.\nMention faculty.", notes.SOP)
		assert.Equal(t, "Add metrics.\nMention faculty.", notes.LOR)
	})
}

const reEvalReply = `---
### ACKNOWLEDGED_IMPROVEMENTS

**RESUME:**
Fully Addressed:
- Formatting fixed.

**SOP:**
Fully Addressed:
- Opening rewritten.

**LOR:**
Not Addressed:
- Still generic.

---
### NEW_OR_REMAINING_ISSUES

**RESUME:**
- Still missing metrics.

**SOP:**
- Research interests remain vague.

**LOR:**
- No comparative framing.

---
### UPDATED_SCORES

ATS_SCORE: 80/100
`

func TestExtractRemainingIssues(t *testing.T) {
	t.Run("extracts all three sub-sections", func(t *testing.T) {
		issues := ExtractRemainingIssues(reEvalReply)

		require.NotNil(t, issues.Resume)
		require.NotNil(t, issues.SOP)
		require.NotNil(t, issues.LOR)
		assert.Equal(t, "- Still missing metrics.", *issues.Resume)
		assert.Equal(t, "- Research interests remain vague.", *issues.SOP)
		assert.Equal(t, "- No comparative framing.", *issues.LOR)
	})

	t.Run("labels in the acknowledged block are not confused for issues", func(t *testing.T) {
		issues := ExtractRemainingIssues(reEvalReply)
		require.NotNil(t, issues.Resume)
		assert.NotContains(t, *issues.Resume, "Formatting fixed.")
	})

	t.Run("missing block yields all nil", func(t *testing.T) {
		issues := ExtractRemainingIssues("### FINAL_VERDICT\n\n**STATUS:** GOOD TO GO\n")
		assert.Nil(t, issues.Resume)
		assert.Nil(t, issues.SOP)
		assert.Nil(t, issues.LOR)
	})

	t.Run("missing sub-section yields nil for that document only", func(t *testing.T) {
		reply := `### NEW_OR_REMAINING_ISSUES

**RESUME:**
- One thing left.

**SOP:**
- Another thing.

---
### UPDATED_SCORES
`
		issues := ExtractRemainingIssues(reply)
		require.NotNil(t, issues.Resume)
		require.NotNil(t, issues.SOP)
		assert.Nil(t, issues.LOR)
		assert.Equal(t, "One thing left.", trimBullet(*issues.Resume))
	})

	t.Run("found but empty is distinct from not found", func(t *testing.T) {
		reply := `### NEW_OR_REMAINING_ISSUES

**RESUME:**

**SOP:**
- Something.

**LOR:**
- Something else.

### UPDATED_SCORES
`
		issues := ExtractRemainingIssues(reply)
		require.NotNil(t, issues.Resume)
		assert.Equal(t, "", *issues.Resume)
	})

	t.Run("never panics on arbitrary text", func(t *testing.T) {
		for _, reply := range []string{"", "NEW_OR_REMAINING_ISSUES", "###", "**RESUME:**"} {
			assert.NotPanics(t, func() { ExtractRemainingIssues(reply) })
		}
	})
}

func trimBullet(s string) string {
	if len(s) > 1 && s[0] == '-' {
		return s[2:]
	}
	return s
}
