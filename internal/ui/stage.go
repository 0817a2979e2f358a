package ui

import "fmt"

// Stage labels printed before each part of a command runs.
const (
	StageLocal  = "LOCAL"
	StageScript = "SCRIPT"
	StageRun    = "RUN"
	StageUpload = "UPLOAD"
)

// StageHeader renders a green stage label followed by its detail, e.g.
// "LOCAL go build ./...".
func StageHeader(stage, detail string) string {
	return fmt.Sprintf("%s %s", SuccessStyle().Bold(true).Render(stage), detail)
}

// UploadHeader renders "UPLOAD src → user@host:dst".
func UploadHeader(src, target, dst string) string {
	return StageHeader(StageUpload, fmt.Sprintf("%s %s %s:%s", src, SymbolArrow, HostStyle().Render(target), dst))
}
