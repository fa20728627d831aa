package typescript

import (
	_ "embed"
)

// RuntimeFileName is the name of the runtime helper module in the output directory.
const RuntimeFileName = "mock-runtime.ts"

//go:embed mock-runtime.ts
var runtimeSource string

// Runtime returns the runtime helper module every mocks file imports from.
func Runtime() string {
	return runtimeSource
}
