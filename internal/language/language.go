// Package language maps source files and pasted snippets to a language label.
package language

import (
	"sort"
	"strings"
)

// Label is the human-readable language name, e.g. "Python".
type Label string

// Unknown is returned when no language can be determined.
const Unknown Label = "unknown"

var byExtension = map[string]Label{
	"py":    "Python",
	"js":    "JavaScript",
	"ts":    "TypeScript",
	"java":  "Java",
	"cpp":   "C++",
	"cxx":   "C++",
	"h":     "C++",
	"hpp":   "C++",
	"c":     "C",
	"cs":    "C#",
	"rb":    "Ruby",
	"go":    "Go",
	"rs":    "Rust",
	"php":   "PHP",
	"swift": "Swift",
	"kt":    "Kotlin",
}

type contentRule struct {
	label   Label
	markers []string
}

// Order matters: the first rule with a matching marker wins.
var contentRules = []contentRule{
	{"Python", []string{"def ", "import ", "print(", "elif"}},
	{"JavaScript", []string{"function ", "console.log(", "var ", "const ", "let "}},
	{"Java", []string{"public class ", "system.out.println(", "import java."}},
	{"C++", []string{"#include", "int main(", "cout << ", "std::"}},
}

// FromFilename resolves a label from the file extension. Names without an
// extension, or with one outside the table, resolve to Unknown.
func FromFilename(name string) Label {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return Unknown
	}
	if l, ok := byExtension[strings.ToLower(base[i+1:])]; ok {
		return l
	}
	return Unknown
}

// FromContent guesses the language of a snippet with no filename.
func FromContent(text string) Label {
	lower := strings.ToLower(text)
	for _, rule := range contentRules {
		for _, m := range rule.markers {
			if strings.Contains(lower, m) {
				return rule.label
			}
		}
	}
	return Unknown
}

// Detect uses the filename when one is given and falls back to content
// heuristics otherwise.
func Detect(identifier, content string) Label {
	if strings.TrimSpace(identifier) != "" {
		return FromFilename(identifier)
	}
	return FromContent(content)
}

// Extensions lists the supported extensions, sorted, without the dot.
func Extensions() []string {
	exts := make([]string, 0, len(byExtension))
	for ext := range byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (l Label) String() string { return string(l) }
