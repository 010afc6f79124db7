package core

import (
	"fmt"
	"strings"
)

// GenerateEntryPoint synthesizes the virtual module that exposes every component
// of the bundle. The text depends only on the component list, so identical input
// yields byte-identical output.
func GenerateEntryPoint(cmps []ComponentDescriptor) (string, error) {
	imports := []string{
		fmt.Sprintf("import { proxyNative, globalScripts } from '%s';", InternalClientID),
		fmt.Sprintf("export * from '%s';", UserIndexEntryID),
		"globalScripts();",
	}
	exports := make([]string, 0, len(cmps))

	for _, cmp := range cmps {
		exportName := DashToPascalCase(cmp.TagName)
		importName := cmp.ClassName

		if cmp.IsPlain {
			exports = append(exports,
				fmt.Sprintf("export { %s as %s } from '%s';", importName, exportName, cmp.SourceFilePath),
			)
			continue
		}

		meta, err := StringifyRuntimeData(FormatRuntimeMeta(cmp))
		if err != nil {
			return "", fmt.Errorf("component %s: %w", cmp.TagName, err)
		}
		importAs := ComponentImportAlias(exportName)

		imports = append(imports,
			fmt.Sprintf("import { %s as %s } from '%s';", importName, importAs, cmp.SourceFilePath),
		)
		exports = append(exports,
			fmt.Sprintf("export const %s = /*@__PURE__*/proxyNative(%s, %s);", exportName, importAs, meta),
		)
	}

	lines := make([]string, 0, len(imports)+len(exports)+1)
	lines = append(lines, imports...)
	lines = append(lines, exports...)
	lines = append(lines, "")
	return strings.Join(lines, "\n"), nil
}
