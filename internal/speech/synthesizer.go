package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// Unsupported returns a Synthesizer for runtimes without speech capability.
// The controller built on it reports Available() == false so the UI can
// disable its playback controls.
func Unsupported() Synthesizer { return unsupportedSynthesizer{} }

type unsupportedSynthesizer struct{}

func (unsupportedSynthesizer) Available() bool { return false }

func (unsupportedSynthesizer) Speak(context.Context, string, string) (Utterance, error) {
	return nil, ErrUnsupported
}

// CommandSynthesizer speaks through an external player command such as
// espeak-ng. Every "{lang}" in the argument template is replaced with the
// language tag and the utterance text is appended as the final argument.
// Pause and resume use process job control signals, so this implementation
// is Unix-only.
type CommandSynthesizer struct {
	Command string
	Args    []string
}

func NewCommandSynthesizer(command string, args []string) *CommandSynthesizer {
	return &CommandSynthesizer{Command: command, Args: args}
}

func (s *CommandSynthesizer) Available() bool {
	if s.Command == "" {
		return false
	}
	_, err := exec.LookPath(s.Command)
	return err == nil
}

func (s *CommandSynthesizer) Speak(ctx context.Context, text, languageTag string) (Utterance, error) {
	if !s.Available() {
		return nil, ErrUnsupported
	}

	args := make([]string, 0, len(s.Args)+1)
	for _, a := range s.Args {
		args = append(args, strings.ReplaceAll(a, "{lang}", languageTag))
	}
	args = append(args, text)

	cmd := exec.CommandContext(ctx, s.Command, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start player %q: %w", s.Command, err)
	}

	u := &processUtterance{cmd: cmd, done: make(chan error, 1)}
	go func() {
		u.done <- cmd.Wait()
	}()
	return u, nil
}

type processUtterance struct {
	cmd  *exec.Cmd
	done chan error
}

func (u *processUtterance) Pause() error {
	if err := u.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("failed to pause player: %w", err)
	}
	return nil
}

func (u *processUtterance) Resume() error {
	if err := u.cmd.Process.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("failed to resume player: %w", err)
	}
	return nil
}

func (u *processUtterance) Cancel() {
	_ = u.cmd.Process.Kill()
}

func (u *processUtterance) Done() <-chan error { return u.done }
