// Package env keeps names of environment variables with special significance to
// Ruchy.
package env

// Environment variables with special significance to Ruchy.
//
// Some of these are significant only in special circumstances, such as when
// running unit tests.
const (
	// Any non-empty value turns on verbose traces on stderr.
	RUCHY_DEBUG = "RUCHY_DEBUG"
	// Path of the YAML configuration file.
	RUCHY_CONFIG = "RUCHY_CONFIG"
	// Path of the bbolt database holding REPL history and binding snapshots.
	RUCHY_HISTORY_DB = "RUCHY_HISTORY_DB"
	// Multiplier applied to timeouts in tests.
	RUCHY_TEST_TIME_SCALE = "RUCHY_TEST_TIME_SCALE"

	NO_COLOR        = "NO_COLOR"
	XDG_CONFIG_HOME = "XDG_CONFIG_HOME"
	XDG_DATA_HOME   = "XDG_DATA_HOME"
)
