package langdetect

import "regexp"

// Language tags the object language of a source unit. Detection is a pure
// function of the text: identical input always yields identical output.
type Language string

const (
	LanguageDart       Language = "dart"
	LanguagePython     Language = "python"
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguageUnknown    Language = "unknown"
)

// Ext returns the default source-file extension for the language, used when
// resolving extensionless import specifiers.
func (l Language) Ext() string {
	switch l {
	case LanguageDart:
		return ".dart"
	case LanguagePython:
		return ".py"
	case LanguageTypeScript:
		return ".ts"
	case LanguageJavaScript:
		return ".js"
	default:
		return ""
	}
}

func (l Language) String() string { return string(l) }

// probe is one ordered detection rule. Strong markers decide on their own;
// weak markers need at least two distinct hits.
type probe struct {
	lang   Language
	strong []*regexp.Regexp
	weak   []*regexp.Regexp
}

// Ordered most-distinguishing first: Flutter build-method signatures before
// generic class syntax, indentation-based def/elif before generic function
// keywords. Full parsing of an unknown language is expensive; this lexical
// pre-filter lets the metrics engine and symbol extractor pick the right
// analyzer without invoking every parser.
var probes = []probe{
	{
		lang: LanguageDart,
		strong: []*regexp.Regexp{
			regexp.MustCompile(`Widget\s+build\s*\(\s*BuildContext\b`),
			regexp.MustCompile(`extends\s+(StatelessWidget|StatefulWidget|State<)`),
			regexp.MustCompile(`import\s+'package:(flutter|dart)`),
			regexp.MustCompile(`\brunApp\s*\(`),
		},
		weak: []*regexp.Regexp{
			regexp.MustCompile(`@override\b`),
			regexp.MustCompile(`\bfinal\s+\w+\s+\w+\s*[;=]`),
			regexp.MustCompile(`\bvoid\s+main\s*\(\s*\)`),
			regexp.MustCompile(`\blate\s+\w+`),
		},
	},
	{
		lang: LanguagePython,
		strong: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*def\s+\w+\s*\([^)]*\)\s*(->\s*[^:]+)?:`),
			regexp.MustCompile(`(?m)^\s*elif\s+.+:`),
			regexp.MustCompile(`(?m)^\s*from\s+[\w.]+\s+import\s+`),
			regexp.MustCompile(`\bif\s+__name__\s*==`),
		},
		weak: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*class\s+\w+(\([^)]*\))?:`),
			regexp.MustCompile(`\bself\b`),
			regexp.MustCompile(`(?m)^\s*import\s+[\w.]+\s*$`),
			regexp.MustCompile(`(?m)^\s*#`),
		},
	},
	{
		lang: LanguageTypeScript,
		strong: []*regexp.Regexp{
			regexp.MustCompile(`\binterface\s+\w+\s*(<[^>]*>)?\s*\{`),
			regexp.MustCompile(`\btype\s+\w+\s*(<[^>]*>)?\s*=`),
			regexp.MustCompile(`\benum\s+\w+\s*\{`),
			regexp.MustCompile(`\w+\s*:\s*(string|number|boolean|void|any|unknown)\b`),
		},
		weak: []*regexp.Regexp{
			regexp.MustCompile(`\bimplements\s+\w+`),
			regexp.MustCompile(`\bexport\s+(default\s+)?(class|function|const|abstract)`),
			regexp.MustCompile(`\breadonly\s+\w+`),
			regexp.MustCompile(`\bas\s+(string|number|const)\b`),
		},
	},
	{
		lang: LanguageJavaScript,
		strong: []*regexp.Regexp{
			regexp.MustCompile(`\bfunction\s+\w+\s*\(`),
			regexp.MustCompile(`\bmodule\.exports\b`),
			regexp.MustCompile(`\brequire\s*\(\s*['"]`),
		},
		weak: []*regexp.Regexp{
			regexp.MustCompile(`\b(const|let|var)\s+\w+\s*=`),
			regexp.MustCompile(`=>\s*[{(]?`),
			regexp.MustCompile(`\bclass\s+\w+`),
			regexp.MustCompile(`\bconsole\.log\s*\(`),
		},
	},
}

// Detect classifies a source snippet by ordered heuristic pattern matching,
// falling back to LanguageUnknown when no probe matches.
func Detect(text string) Language {
	if text == "" {
		return LanguageUnknown
	}
	for _, p := range probes {
		for _, re := range p.strong {
			if re.MatchString(text) {
				return p.lang
			}
		}
		hits := 0
		for _, re := range p.weak {
			if re.MatchString(text) {
				hits++
				if hits >= 2 {
					return p.lang
				}
			}
		}
	}
	return LanguageUnknown
}

// FromExtension maps a file extension to its language tag, used when the
// path is known and text probing is unnecessary.
func FromExtension(ext string) Language {
	switch ext {
	case ".ts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".py":
		return LanguagePython
	case ".dart":
		return LanguageDart
	default:
		return LanguageUnknown
	}
}
