// Package paths resolves the directories rulink reads and writes.
//
// # Configuration
//
// The per-user configuration directory is $RULINK_CONFIG_DIR when set,
// otherwise <XDG config home>/rulink (github.com/adrg/xdg):
//
//	| OS      | Default                                   |
//	|---------|-------------------------------------------|
//	| Linux   | ~/.config/rulink/                         |
//	| macOS   | ~/Library/Application Support/rulink/     |
//	| Windows | %LOCALAPPDATA%\rulink\                    |
//
// # Rules directory
//
// Rules are installed into .cursor/rules. [RulesDir] prefers that directory
// under the working directory when it already exists and otherwise places it
// under the project root found by [FindProjectRoot].
package paths
