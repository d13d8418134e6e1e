// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Browsing auto-pan, document cross-references, serve/render/search commands
// 0.2.0 - Search and focus navigation, detail pane, focus persistence
// 0.1.0 - Initial release: Aitoff whole-sky chart, drag and wheel gestures
