package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DashToPascalCase turns a kebab-case tag name into an exported identifier:
// "my-button" becomes "MyButton". Only the first character of a segment is
// upper-cased, so "x-2d-chart" becomes "X2dChart".
func DashToPascalCase(tagName string) string {
	segments := strings.Split(strings.ToLower(tagName), "-")
	caser := cases.Title(language.Und, cases.NoLower)

	var sb strings.Builder
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		sb.WriteString(caser.String(segment[:1]))
		sb.WriteString(segment[1:])
	}
	return sb.String()
}

// ComponentImportAlias is the local name a managed component class is imported
// under in the entry point, so it never clashes with the exported wrapper.
func ComponentImportAlias(exportName string) string {
	return "$Cmp" + exportName
}
