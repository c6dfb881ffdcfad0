package decl

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/doctor/errors"
)

// stderrTail bounds how much extractor stderr is attached to an error.
const stderrTail = 2048

// FromCommand runs an external extractor and reads JSON lines declarations from its
// stdout. cmdline is split like a shell would, without invoking one. logger may be nil.
func FromCommand(ctx context.Context, cmdline string, logger *zap.SugaredLogger) ([]Declaration, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	args, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "extractor command %q: %v", cmdline, err)
	}
	if len(args) == 0 {
		return nil, errors.NewInvalidRequestError("extractor command is empty")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugw("Running extractor", "command", args[0], "args", len(args)-1)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "extractor cancelled")
		}
		wrapped := errors.Wrapf(err, "extractor %s failed", args[0])
		if tail := tailOf(stderr.String()); tail != "" {
			wrapped = errors.WithDetail(wrapped, tail)
		}
		return nil, wrapped
	}

	decls, err := ReadJSONLines(&stdout)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode output of extractor %s", args[0])
	}
	for i, d := range decls {
		if err := d.Validate(); err != nil {
			return nil, errors.Wrapf(err, "extractor record %d", i+1)
		}
	}

	logger.Debugw("Extractor finished", "declarations", len(decls))
	return decls, nil
}

func tailOf(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}
	return s
}
