package typescript

import (
	"fmt"
	"sort"
	"strings"
)

// IndexFileName is the barrel export written next to the mocks files.
const IndexFileName = "index.ts"

// GenerateIndex creates a barrel export re-exporting the runtime helpers and
// every mocks file.
func GenerateIndex(mocksFiles []string) string {
	var sb strings.Builder

	sb.WriteString("/* eslint-disable */\n")
	sb.WriteString("// Auto-generated barrel export - re-exports all generated mocks\n")
	sb.WriteString("// Regenerate with: typemockr generate\n\n")

	sorted := make([]string, len(mocksFiles))
	copy(sorted, mocksFiles)
	sort.Strings(sorted)

	sb.WriteString(fmt.Sprintf("export * from '%s';\n", moduleName(RuntimeFileName)))
	for _, f := range sorted {
		sb.WriteString(fmt.Sprintf("export * from '%s';\n", moduleName(f)))
	}
	return sb.String()
}

func moduleName(file string) string {
	return "./" + strings.TrimSuffix(file, ".ts")
}
