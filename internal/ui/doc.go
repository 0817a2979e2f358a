// Package ui provides styled terminal output for sup.
//
// Output is plain lines, not a full-screen program: host prefixes, stage
// headers, per-host failure lines, end-of-stage summaries and the listing
// tables shown when no command is given. Styling goes through Lip Gloss so
// a single call to DisableColors (for --no-color or a non-TTY) turns every
// component monochrome.
//
// # Color Scheme
//
//	ColorSuccess   (green)  - Successful stages
//	ColorError     (red)    - Failures
//	ColorWarning   (yellow) - Warnings and stderr markers
//	ColorInfo      (cyan)   - Stage labels
//	ColorMuted     (gray)   - Secondary text
//	ColorSecondary (blue)   - Host names
package ui
