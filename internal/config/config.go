package config

import (
	"os"
)

// Config carries the runtime settings of the interpreter.
type Config struct {
	// GrammarPath points at a dialect grammar file. Empty means the
	// built-in grammar asset.
	GrammarPath string
	// ExportIndent is the indentation unit for exported JSON.
	ExportIndent string
}

// GetInterpreterConfig returns the interpreter configuration based on
// environment variables.
func GetInterpreterConfig() Config {
	return Config{
		GrammarPath:  os.Getenv("DOMAINFORGE_GRAMMAR"),
		ExportIndent: getExportIndent(),
	}
}

// getExportIndent returns the JSON indentation unit
func getExportIndent() string {
	indent := os.Getenv("DOMAINFORGE_EXPORT_INDENT")
	if indent == "" {
		return "  " // Default two-space indent
	}
	return indent
}

// IsDialectMode returns true if a dialect grammar override is set
func IsDialectMode() bool {
	return os.Getenv("DOMAINFORGE_GRAMMAR") != ""
}
