package formatter

type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Check .Case .Severity .MaxLineNumWidth .Filename .Line -}}
{{snippet .SnippetLines .Line .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{message .Message .Padding -}}
{{witness .Witness -}}
{{note .Note}}
`
}

// EngineIssueFormatter renders issues about the case file itself, such as
// unknown checks, showing only the first line of the case.
type EngineIssueFormatter struct{}

func (f *EngineIssueFormatter) IssueTemplate() string {
	return `{{header .Check .Case .Severity .MaxLineNumWidth .Filename .Line -}}
{{snippet .SnippetLines .Line .Line .MaxLineNumWidth .CommonIndent .Padding -}}
{{message .Message .Padding}}
`
}
