package ui

import (
	"errors"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	superrors "github.com/rileyhilliard/sup/internal/errors"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestStylesRenderPlainWithoutColor(t *testing.T) {
	styles := map[string]lipgloss.Style{
		"success": SuccessStyle(),
		"error":   ErrorStyle(),
		"warning": WarningStyle(),
		"info":    InfoStyle(),
		"muted":   MutedStyle(),
		"host":    HostStyle(),
	}
	for name, style := range styles {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "text", style.Render("text"))
		})
	}
}

func TestStageHeader(t *testing.T) {
	assert.Equal(t, "LOCAL go build ./...", StageHeader(StageLocal, "go build ./..."))
	assert.Equal(t, "UPLOAD ./dist → deploy@web1:/srv/app", UploadHeader("./dist", "deploy@web1", "/srv/app"))
}

func TestHostFailure(t *testing.T) {
	err := superrors.WrapWithCode(superrors.NewExitError(3), superrors.ErrExec,
		"Remote command failed on deploy@web2", "")

	assert.Equal(t,
		"✗ Error on host deploy@web2: Remote command failed on deploy@web2 (exit code 3)",
		HostFailure("deploy@web2", err))
}

func TestOneline(t *testing.T) {
	assert.Empty(t, Oneline(nil))
	assert.Equal(t, "plain error", Oneline(errors.New("plain error")))
	assert.Equal(t, "multi line error", Oneline(errors.New("multi\n  line\terror\n")))
	assert.Equal(t, "Invalid host 'web1'", Oneline(superrors.New(superrors.ErrSSH, "Invalid host 'web1'", "Hosts must be written as user@hostname")))
}

func TestFailureSummary(t *testing.T) {
	assert.Empty(t, FailureSummary(nil, 3))
	assert.Equal(t, "✗ 2 of 5 hosts failed: deploy@a, deploy@b", FailureSummary([]string{"deploy@a", "deploy@b"}, 5))
	assert.Equal(t, "✗ 1 of 1 host failed: deploy@a", FailureSummary([]string{"deploy@a"}, 1))
}
