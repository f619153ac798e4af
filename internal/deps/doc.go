// Package deps verifies the external tools and directories the merge
// pipeline depends on before any job runs.
package deps
