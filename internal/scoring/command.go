package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"originate/internal/decision/models"
	"originate/pkg/platform/upstream"
)

// Command runs a scorer subprocess per call:
//
//	<command> --model t2_default --client-id C --seed 42 --request-id R
//
// and reads the payload from its stdout.
type Command struct {
	name string
	args []string
}

// NewCommand parses a whitespace-separated command line.
func NewCommand(commandLine string) (*Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("scorer command is required")
	}
	return &Command{name: fields[0], args: fields[1:]}, nil
}

// Score runs the subprocess under ctx.
func (c *Command) Score(ctx context.Context, req models.ScoreRequest) (json.RawMessage, error) {
	source := req.Model.String()
	args := append(append([]string{}, c.args...),
		"--model", source,
		"--client-id", req.ClientID,
		"--seed", strconv.FormatInt(req.Seed, 10),
		"--request-id", req.RequestID,
	)
	cmd := exec.CommandContext(ctx, c.name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, upstream.FromTransport(source, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "scorer exited with error"
		}
		return nil, upstream.NewError(upstream.CategoryOutage, source, msg, err)
	}
	out := bytes.TrimSpace(stdout.Bytes())
	if !json.Valid(out) {
		return nil, upstream.NewError(upstream.CategoryBadData, source, "scorer output is not JSON", nil)
	}
	return json.RawMessage(out), nil
}
