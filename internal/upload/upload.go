// Package upload streams local files and directories to remote hosts.
//
// Each transfer chains two subprocesses: a local `tar -czf -` producer and
// a remote-shell client running `cd <dst> && tar xzf -`. Bytes are copied
// from the producer's stdout into the client's stdin with no staging file.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/errors"
	supexec "github.com/rileyhilliard/sup/internal/exec"
	"github.com/rileyhilliard/sup/internal/host"
	"github.com/rileyhilliard/sup/internal/logger"
	"github.com/rileyhilliard/sup/internal/ui"
	"github.com/rileyhilliard/sup/internal/util"
)

// Pipeline uploads files and directories to hosts, one transfer at a time.
type Pipeline struct {
	Client supexec.Client

	// Stdout receives one header line per transfer.
	Stdout io.Writer
	Log    logger.Logger
}

// NewPipeline creates a Pipeline that prints headers to stdout.
func NewPipeline(client supexec.Client, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Noop()
	}
	return &Pipeline{Client: client, Stdout: os.Stdout, Log: log}
}

// Run uploads every entry to every host, hosts outer and entries inner, in
// order. The first failure stops the whole run.
func (p *Pipeline) Run(ctx context.Context, hosts []string, uploads []config.Upload) error {
	p.Log.Debug("Starting %d upload(s) to %d host(s)", len(uploads), len(hosts))

	if len(hosts) == 0 {
		p.Log.Warn("No hosts matched the filters")
		return nil
	}

	for _, literal := range hosts {
		id, err := host.ParseIdentity(literal)
		if err != nil {
			return err
		}
		for _, u := range uploads {
			if err := p.Upload(ctx, id, u); err != nil {
				return err
			}
		}
	}
	return nil
}

// Upload transfers one source path to one host.
func (p *Pipeline) Upload(ctx context.Context, id host.Identity, u config.Upload) error {
	target := id.String()
	src := filepath.Clean(config.ExpandTilde(u.Src))

	if _, err := os.Stat(src); err != nil {
		return errors.WrapWithCode(err, errors.ErrUpload,
			fmt.Sprintf("Source path does not exist: %s (upload to %s:%s)", u.Src, target, u.Dst),
			"Build or create the file before uploading it, or fix 'src' in your Supfile")
	}

	p.Log.Info("Uploading %s to %s:%s", u.Src, target, u.Dst)
	if p.Stdout != nil {
		fmt.Fprintln(p.Stdout, ui.UploadHeader(u.Src, target, u.Dst))
	}

	if err := p.ensureRemoteDir(ctx, target, u.Dst); err != nil {
		return err
	}

	if err := p.transfer(ctx, target, src, u.Dst); err != nil {
		return err
	}

	p.Log.Debug("Uploaded %s to %s:%s", u.Src, target, u.Dst)
	return nil
}

// ensureRemoteDir runs `mkdir -p <dst>` on the host.
func (p *Pipeline) ensureRemoteDir(ctx context.Context, target, dst string) error {
	p.Log.Debug("Ensuring remote directory exists: %s", dst)

	cmd := p.Client.Command(ctx, target, "mkdir -p "+util.ShellQuotePreserveTilde(dst))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.WrapWithCode(withStderr(err, &stderr), errors.ErrUpload,
			fmt.Sprintf("Failed to create remote directory %s on %s", dst, target),
			fmt.Sprintf("Check permissions with: ssh %s 'ls -ld %s'", target, filepath.Dir(dst)))
	}
	return nil
}

// transfer pipes `tar -czf - -C <parent> <base>` into the remote extractor.
func (p *Pipeline) transfer(ctx context.Context, target, src, dst string) error {
	archiver := exec.CommandContext(ctx, "tar", "-czf", "-", "-C", filepath.Dir(src), filepath.Base(src))
	var archiverErr bytes.Buffer
	archiver.Stderr = &archiverErr

	archive, err := archiver.StdoutPipe()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrUpload, "Couldn't create archiver pipe", "")
	}

	extractor := p.Client.Command(ctx, target, "cd "+util.ShellQuotePreserveTilde(dst)+" && tar xzf -")
	var extractorErr bytes.Buffer
	extractor.Stderr = &extractorErr

	stream, err := extractor.StdinPipe()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrUpload, "Couldn't create extractor pipe", "")
	}

	if err := archiver.Start(); err != nil {
		return errors.WrapWithCode(err, errors.ErrUpload,
			"Couldn't start tar",
			"Make sure tar is installed and on your PATH")
	}

	if err := extractor.Start(); err != nil {
		archive.Close()
		_ = archiver.Wait()
		return errors.WrapWithCode(err, errors.ErrUpload,
			fmt.Sprintf("Couldn't start remote shell client for %s", target),
			fmt.Sprintf("Make sure '%s' is installed, or choose another client with --ssh", p.Client.Path))
	}

	p.Log.Debug("Starting transfer to %s", target)
	n, copyErr := io.Copy(stream, archive)
	p.Log.Debug("Transferred %d bytes", n)

	stream.Close()
	if copyErr != nil {
		// Unblock the archiver if the extractor went away mid-stream.
		archive.Close()
	}

	archiveWait := archiver.Wait()
	extractWait := extractor.Wait()

	switch {
	case copyErr != nil && extractWait != nil:
		return extractionError(target, dst, withStderr(extractWait, &extractorErr))
	case archiveWait != nil:
		return errors.WrapWithCode(withStderr(archiveWait, &archiverErr), errors.ErrUpload,
			fmt.Sprintf("Archiving %s failed", src), "")
	case extractWait != nil:
		return extractionError(target, dst, withStderr(extractWait, &extractorErr))
	case copyErr != nil:
		return errors.WrapWithCode(copyErr, errors.ErrUpload,
			fmt.Sprintf("Streaming %s to %s failed", src, target), "")
	}
	return nil
}

func extractionError(target, dst string, cause error) error {
	return errors.WrapWithCode(cause, errors.ErrUpload,
		fmt.Sprintf("Remote extraction into %s failed on %s", dst, target),
		fmt.Sprintf("Make sure tar is installed on the host and %s is writable", dst))
}

// withStderr appends captured error output to err.
func withStderr(err error, stderr *bytes.Buffer) error {
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}
