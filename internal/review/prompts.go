package review

import "fmt"

// Heading vocabulary shared between the prompt templates and the section
// extractor. The model is instructed to emit these headings verbatim and
// sections.go anchors its searches on them, so the two must move together.
const (
	headingResumeEvaluation = "### RESUME EVALUATION"
	headingSOPEvaluation    = "### SOP EVALUATION"
	headingLOREvaluation    = "### LOR EVALUATION"
	headingOverall          = "### OVERALL"
	headingAreas            = "AREAS_OF_IMPROVEMENT"
	headingRemainingIssues  = "NEW_OR_REMAINING_ISSUES"
)

// noPriorFeedback is the sentinel embedded in a re-evaluation prompt when a
// document type has no stored notes.
const noPriorFeedback = "NO_PREVIOUS_FEEDBACK"

// PriorNotes holds the stored note text per document type for a
// re-evaluation prompt. Empty fields are replaced by a sentinel so the
// model is told explicitly that no prior feedback exists.
type PriorNotes struct {
	Resume string
	SOP    string
	LOR    string
}

const initialPromptTemplate = `You are an experienced university admissions evaluator reviewing application documents for graduate programs.

TARGET UNIVERSITY: %[1]s
TARGET PROGRAM: %[2]s

==============================
RESUME:
%[3]s
==============================
SOP (Statement of Purpose):
%[4]s
==============================
LOR (Letter of Recommendation):
%[5]s
==============================

Analyze each document thoroughly. Be specific, actionable, and constructive. Respond in exactly the structure below, keeping every heading verbatim.

---
### RESUME EVALUATION

Evaluate ATS compatibility, technical relevance to %[2]s, presentation, and content quality. Look for missing sections, vague descriptions without metrics, and skills not aligned with the target program.

**STRENGTHS:**
- [List 3-5 specific strong points with examples]

**AREAS_OF_IMPROVEMENT:**
- [List 5-8 specific, actionable improvements]
- [Format each as "Issue: the problem. Suggestion: how to fix it. Why: impact on the application."]

**SCORES:**
ATS_SCORE: X/100
TECHNICAL_RELEVANCE_SCORE: X/100
PRESENTATION_SCORE: X/100

---
### SOP EVALUATION

Evaluate the personal narrative, research interests, program fit (specific professors, labs, courses), career goals, and writing quality. Flag generic statements and missing elements.

**STRENGTHS:**
- [List 3-5 specific strong points with examples from the text]

**AREAS_OF_IMPROVEMENT:**
- [List 6-10 specific, actionable improvements]

**SCORE:**
SOP_SCORE: X/100

---
### LOR EVALUATION

Evaluate recommender credibility, specific examples versus generic praise, comparative assessment, and consistency with the resume and SOP.

**STRENGTHS:**
- [List 3-5 specific strong points]

**AREAS_OF_IMPROVEMENT:**
- [List 5-8 specific improvements]

**SCORE:**
LOR_SCORE: X/100

---
### OVERALL ASSESSMENT

**PROFILE_SUMMARY:**
[3-4 sentences on overall profile strength and consistency across documents]

**CRITICAL_GAPS:**
[Top 3 most important improvements across all documents]

**OVERALL_READINESS_SCORE:** X/100

**FINAL_RECOMMENDATION:**
[READY TO SUBMIT / MINOR REVISIONS NEEDED / MAJOR REVISIONS REQUIRED, plus the top priority actions]
`

// BuildInitialPrompt produces the first-evaluation prompt. It performs no
// I/O and tolerates empty document texts.
func BuildInitialPrompt(university, program, resumeText, sopText, lorText string) string {
	return fmt.Sprintf(initialPromptTemplate, university, program, resumeText, sopText, lorText)
}

const reEvaluationPromptTemplate = `You are an experienced university admissions evaluator conducting a RE-EVALUATION of revised application documents.

TARGET UNIVERSITY: %[1]s
TARGET PROGRAM: %[2]s

The applicant previously received the feedback below and has submitted revised documents. Check each previous suggestion methodically: classify it as fully addressed, partially addressed, or not addressed, and identify any new issues the revision introduced.

==============================
PREVIOUS RESUME FEEDBACK:
%[6]s

REVISED RESUME:
%[3]s

PREVIOUS SOP FEEDBACK:
%[7]s

REVISED SOP:
%[4]s

PREVIOUS LOR FEEDBACK:
%[8]s

REVISED LOR:
%[5]s
==============================

Respond in exactly the structure below, keeping every heading verbatim.

---
### ACKNOWLEDGED_IMPROVEMENTS

**RESUME:**
Fully Addressed:
- [Previous issues that were completely resolved, with evidence]

Partially Addressed:
- [Issues with some improvement, and what is still missing]

Not Addressed:
- [Issues that remain unchanged]

**SOP:**
Fully Addressed:
- [Resolved issues]

Partially Addressed:
- [Partial improvements]

Not Addressed:
- [Unchanged issues]

**LOR:**
Fully Addressed:
- [Resolved issues]

Partially Addressed:
- [Partial improvements]

Not Addressed:
- [Unchanged issues]

---
### NEW_OR_REMAINING_ISSUES

**RESUME:**
- [New problems introduced by the revision and the most important unresolved issues]

**SOP:**
- [New and remaining issues]

**LOR:**
- [New and remaining issues]

---
### UPDATED_SCORES

ATS_SCORE: X/100
TECHNICAL_RELEVANCE_SCORE: X/100
PRESENTATION_SCORE: X/100
SOP_SCORE: X/100
LOR_SCORE: X/100
OVERALL_READINESS_SCORE: X/100
[Note for each whether it improved, declined, or stayed the same]

---
### FINAL_VERDICT

**STATUS:** [GOOD TO GO / MINOR CHANGES NEEDED / SIGNIFICANT CHANGES NEEDED]

**REASONING:**
[2-3 sentences explaining the verdict]

**RECOMMENDED_NEXT_STEPS:**
[Specific action plan, ranked by impact]
`

// BuildReEvaluationPrompt produces the prompt comparing revised documents
// against previously stored feedback.
func BuildReEvaluationPrompt(university, program, resumeText, sopText, lorText string, prior PriorNotes) string {
	return fmt.Sprintf(reEvaluationPromptTemplate,
		university, program,
		resumeText, sopText, lorText,
		orSentinel(prior.Resume),
		orSentinel(prior.SOP),
		orSentinel(prior.LOR),
	)
}

func orSentinel(notes string) string {
	if notes == "" {
		return noPriorFeedback
	}
	return notes
}
