package review

import (
	"regexp"
	"strings"
)

// The model's reply is unconstrained natural language, so extraction is
// tolerant by contract: every miss degrades to "no new information" and
// nothing in this file returns an error.

// Notes holds the extracted "areas of improvement" text per document type
// from an initial evaluation reply. Empty string means nothing was found.
type Notes struct {
	Resume string
	SOP    string
	LOR    string
}

// RemainingIssues holds the per-document "new or remaining issues" text
// from a re-evaluation reply. A nil field means the sub-section was not
// found, which is distinct from found-but-empty: on nil the caller carries
// the previously stored notes forward unchanged.
type RemainingIssues struct {
	Resume *string
	SOP    *string
	LOR    *string
}

var (
	resumeBlockRe = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(headingResumeEvaluation) + `\s*(.*?)` + regexp.QuoteMeta(headingSOPEvaluation))
	sopBlockRe    = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(headingSOPEvaluation) + `\s*(.*?)` + regexp.QuoteMeta(headingLOREvaluation))
	lorBlockRe    = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(headingLOREvaluation) + `\s*(.*?)` + regexp.QuoteMeta(headingOverall))

	areasItemsRe       = listItemsPattern(headingAreas)
	looseResumeAreasRe = listItemsPattern(`RESUME.*` + headingAreas)
	looseSOPAreasRe    = listItemsPattern(`SOP.*` + headingAreas)
	looseLORAreasRe    = listItemsPattern(`LOR.*` + headingAreas)

	remainingBlockRe = regexp.MustCompile(`(?is)` + headingRemainingIssues + `[\*:\s]*\n(.*?)(?:\n#{2,}|\n-{3,}|\z)`)
	resumeLabelRe    = regexp.MustCompile(`(?im)^[\s\*-]*RESUME[\s\*]*:[\s\*]*$`)
	sopLabelRe       = regexp.MustCompile(`(?im)^[\s\*-]*SOP[\s\*]*:[\s\*]*$`)
	lorLabelRe       = regexp.MustCompile(`(?im)^[\s\*-]*LOR[\s\*]*:[\s\*]*$`)
)

// listItemsPattern matches a labeled list: the label heading (possibly
// bolded), then everything up to the next all-caps heading line or the end
// of the text.
func listItemsPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i:` + label + `)[\*:\s]*\n([\s\S]*?)(?:\n\*{0,2}[A-Z][A-Z_ ]+:|\z)`)
}

// ExtractInitialNotes pulls the AREAS_OF_IMPROVEMENT list for each document
// type out of an initial evaluation reply.
func ExtractInitialNotes(reply string) Notes {
	return Notes{
		Resume: extractDocNotes(reply, resumeBlockRe, looseResumeAreasRe),
		SOP:    extractDocNotes(reply, sopBlockRe, looseSOPAreasRe),
		LOR:    extractDocNotes(reply, lorBlockRe, looseLORAreasRe),
	}
}

// extractDocNotes tries the heading-pair slice first, then a looser
// document-specific label over the whole reply. extractListItems itself
// falls back to collecting every bulleted line when the label misses.
func extractDocNotes(reply string, blockRe, looseRe *regexp.Regexp) string {
	if m := blockRe.FindStringSubmatch(reply); m != nil {
		return extractListItems(m[1], areasItemsRe)
	}
	return extractListItems(reply, looseRe)
}

func extractListItems(block string, pat *regexp.Regexp) string {
	if block == "" {
		return ""
	}
	m := pat.FindStringSubmatch(block)
	if m == nil {
		return collectBullets(block)
	}
	return joinBulletItems(m[1])
}

// joinBulletItems parses a span into discrete items: a line starting with a
// bullet marker begins a new item, a continuation line is space-joined onto
// the previous item, blank lines are skipped. Text before the first bullet
// is dropped.
func joinBulletItems(content string) string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "-"):
			items = append(items, strings.TrimSpace(strings.TrimLeft(trimmed, "-")))
		case len(items) > 0:
			items[len(items)-1] += " " + trimmed
		}
	}
	return strings.TrimSpace(strings.Join(items, "\n"))
}

// collectBullets is the last-resort fallback: every bulleted line in the
// given text, one item per line.
func collectBullets(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") {
			lines = append(lines, strings.TrimSpace(strings.TrimLeft(trimmed, "-")))
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExtractRemainingIssues pulls the per-document sub-sections out of the
// NEW_OR_REMAINING_ISSUES block of a re-evaluation reply. Sub-sections are
// bounded resume -> sop -> lor -> end of block.
func ExtractRemainingIssues(reply string) RemainingIssues {
	m := remainingBlockRe.FindStringSubmatch(reply)
	if m == nil {
		return RemainingIssues{}
	}
	block := m[1]
	return RemainingIssues{
		Resume: sliceLabeled(block, resumeLabelRe, sopLabelRe, lorLabelRe),
		SOP:    sliceLabeled(block, sopLabelRe, lorLabelRe),
		LOR:    sliceLabeled(block, lorLabelRe),
	}
}

// sliceLabeled returns the trimmed text between a label line and the first
// of the following labels (or the end of the block), or nil when the label
// is absent.
func sliceLabeled(block string, label *regexp.Regexp, next ...*regexp.Regexp) *string {
	loc := label.FindStringIndex(block)
	if loc == nil {
		return nil
	}
	rest := block[loc[1]:]
	end := len(rest)
	for _, n := range next {
		if l := n.FindStringIndex(rest); l != nil && l[0] < end {
			end = l[0]
		}
	}
	out := strings.TrimSpace(rest[:end])
	return &out
}
