package tools

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/observability"
)

// Commands configures the programs run by [Exec]. Each command is split into
// words with shell quoting rules, without running a shell, reads its input on stdin and writes its result to stdout.
type Commands struct {
	Align     string `toml:"align" yaml:"align"`
	Tree      string `toml:"tree" yaml:"tree"`
	Consensus string `toml:"consensus" yaml:"consensus"`
}

// DefaultCommands uses MAFFT and FastTree, which both read stdin when
// given "-" or no file.
var DefaultCommands = Commands{
	Align: "mafft --auto --quiet -",
	Tree:  "FastTree -quiet",
}

// Exec runs external programs.
type Exec struct {
	cmds Commands
}

// NewExec returns a toolkit for cmds.
func NewExec(cmds Commands) *Exec {
	return &Exec{cmds: cmds}
}

// Align runs the alignment command.
func (e *Exec) Align(ctx context.Context, fasta []byte) ([]byte, error) {
	return e.run(ctx, "align", e.cmds.Align, fasta)
}

// InferTree runs the tree command.
func (e *Exec) InferTree(ctx context.Context, alignment []byte) (string, error) {
	out, err := e.run(ctx, "tree", e.cmds.Tree, alignment)
	return strings.TrimSpace(string(out)), err
}

// Consensus runs the consensus command on the newline-joined trees.
func (e *Exec) Consensus(ctx context.Context, newicks []string) (string, error) {
	out, err := e.run(ctx, "consensus", e.cmds.Consensus, []byte(strings.Join(newicks, "\n")+"\n"))
	return strings.TrimSpace(string(out)), err
}

// Fingerprint identifies the configured commands, for cache keys.
func (e *Exec) Fingerprint(tool string) string {
	switch tool {
	case "align":
		return e.cmds.Align
	case "tree":
		return e.cmds.Tree
	default:
		return e.cmds.Consensus
	}
}

func (e *Exec) run(ctx context.Context, tool, command string, input []byte) (out []byte, err error) {
	argv, err := shellwords.Parse(command)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOption, err, "%s command %q", tool, command)
	}
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidOption, "no %s command configured", tool)
	}
	start := time.Now()
	defer func() {
		observability.Tool().OnToolCall(ctx, tool, time.Since(start), err)
	}()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = argv[0]
		}
		return nil, errors.Wrap(errors.ErrCodeExternalTool, err, "%s: %s", tool, msg)
	}
	return stdout.Bytes(), nil
}
