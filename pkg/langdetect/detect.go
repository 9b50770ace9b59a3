// Package langdetect identifies the programming language of ingested files.
// It uses go-enry, which combines filename, extension, shebang, modeline and
// content classification, so results improve when a filename is available.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Candidate languages for the content classifier when no filename narrows
// the search. Kept small so classification stays cheap per file.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// DetectFile returns the language for a file, or "" when unknown.
// The content may be a prefix of the file; enry only inspects the head.
func DetectFile(name string, content []byte) string {
	if name == "" {
		return Detect(content)
	}
	lang := enry.GetLanguage(filepath.Base(name), content)
	if lang == "" || lang == enry.OtherLanguage {
		return Detect(content)
	}
	return normalize(lang)
}

// Detect returns the language for unnamed content, such as pasted buffers.
// Returns "" when no confident match is found.
func Detect(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	// Shebang is the strongest content-only signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Only trust the classifier when it reports a safe match.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return ""
}

// normalize converts enry language names to short lowercase tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
