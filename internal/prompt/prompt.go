// Package prompt renders the instruction text sent to the completion service.
package prompt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/codesummary/internal/language"
)

// Builder renders the single prompt used by the combined flow.
type Builder interface {
	Build(content string, lang language.Label) string
}

// StagedBuilder renders the three prompts of the staged flow: summary, usage
// example, and a confidence review of the generated summary.
type StagedBuilder interface {
	Summary(content string, lang language.Label) string
	Example(content string, lang language.Label) string
	Confidence(content string, lang language.Label, summary string) string
}

const combinedTemplate = `You are an expert code reviewer and technical writer.

Please summarize the following %s code with the following details:

1. Purpose of the code
2. Parameters used
3. Return values (if any)
4. Usage notes
5. Suggest a realistic usage example
6. Rate the confidence level of this summary from 0 to 100 with a short justification.

--- BEGIN CODE ---

%s

--- END CODE ---
`

const summaryTemplate = `You are an expert software assistant. Given the following %s code, generate a detailed summary including:
1. Purpose of the function/class/module.
2. Input parameters and their types.
3. Return values.
4. Any usage notes.

--- BEGIN CODE ---

%s

--- END CODE ---
`

const exampleTemplate = `You are an expert software assistant. Given the following %s code, generate a usage example showing how to call it with realistic data.

--- BEGIN CODE ---

%s

--- END CODE ---
`

const confidenceTemplate = `You are a software review agent. Given the following %s code and its summary, provide a confidence score (0-100) indicating how accurate and complete the summary is. Just respond with a number.

--- BEGIN CODE ---

%s

--- END CODE ---

--- BEGIN SUMMARY ---

%s

--- END SUMMARY ---
`

// Templates is the built-in prompt set. It satisfies both Builder and
// StagedBuilder.
type Templates struct{}

// Default returns the built-in prompt set.
func Default() Templates {
	return Templates{}
}

func (Templates) Build(content string, lang language.Label) string {
	return fmt.Sprintf(combinedTemplate, displayName(lang), content)
}

func (Templates) Summary(content string, lang language.Label) string {
	return fmt.Sprintf(summaryTemplate, displayName(lang), content)
}

func (Templates) Example(content string, lang language.Label) string {
	return fmt.Sprintf(exampleTemplate, displayName(lang), content)
}

func (Templates) Confidence(content string, lang language.Label, summary string) string {
	return fmt.Sprintf(confidenceTemplate, displayName(lang), content, summary)
}

func displayName(lang language.Label) string {
	if lang == "" || lang == language.Unknown {
		return "source"
	}
	return string(lang)
}

var (
	reBareScore = regexp.MustCompile(`^\s*\**\s*(\d{1,3})\s*(?:/\s*100|%)?\s*\**\s*\.?\s*$`)
	reRange     = regexp.MustCompile(`\b0\s*(?:-|to|–)\s*100\b`)
	reScored    = regexp.MustCompile(`(\d{1,3})\s*(?:/\s*100|%)`)
	reNumber    = regexp.MustCompile(`\d{1,3}`)
)

// confidenceWindow bounds how far past the word "confidence" a score is
// looked for.
const confidenceWindow = 200

// ParseConfidence extracts a 0-100 score from model output. A bare number is
// accepted (staged flow); otherwise the score is searched for after the word
// "confidence", preferring "N/100" or "N%" forms. Scores outside 0-100 are
// rejected.
func ParseConfidence(text string) (int, bool) {
	if m := reBareScore.FindStringSubmatch(text); m != nil {
		return toScore(m[1])
	}

	idx := strings.Index(strings.ToLower(text), "confidence")
	if idx < 0 {
		return 0, false
	}
	tail := text[idx:]
	if len(tail) > confidenceWindow {
		tail = tail[:confidenceWindow]
	}
	tail = reRange.ReplaceAllString(tail, "")

	if m := reScored.FindStringSubmatch(tail); m != nil {
		return toScore(m[1])
	}
	if m := reNumber.FindString(tail); m != "" {
		return toScore(m)
	}
	return 0, false
}

func toScore(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}
