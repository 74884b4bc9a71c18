package useraudit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// CredentialSource yields server credentials one at a time. ok=false
// means the source is exhausted (or the operator declined to add
// another server).
type CredentialSource interface {
	Next(ctx context.Context) (cred Credential, ok bool, err error)
}

// StaticSource serves pre-supplied credentials in order.
type StaticSource struct {
	Creds []Credential
	next  int
}

func (s *StaticSource) Next(ctx context.Context) (Credential, bool, error) {
	if s.next >= len(s.Creds) {
		return Credential{}, false, nil
	}
	cred := s.Creds[s.next]
	s.next++
	return cred, true, nil
}

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() (string, error) {
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	return string(pw), err
}

// PromptSource collects credentials interactively. When Gate is set,
// each call first asks whether to add another server and stops on
// anything but an explicit yes.
type PromptSource struct {
	In   *bufio.Reader
	Out  io.Writer
	Gate bool

	// overridable for tests driving In from a buffer
	ReadPassword func() (string, error)
}

func (s *PromptSource) Next(ctx context.Context) (Credential, bool, error) {
	if s.Gate {
		answer, err := s.promptLine("Add another server? [y/N]: ")
		if err != nil {
			// stdin closing at the gate is a decline, not a failure
			if errors.Is(err, io.EOF) {
				return Credential{}, false, nil
			}
			return Credential{}, false, err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return Credential{}, false, nil
		}
	}

	serverUrl, err := s.promptLine("Server URL: ")
	if err != nil {
		return Credential{}, false, err
	}
	username, err := s.promptLine("Username: ")
	if err != nil {
		return Credential{}, false, err
	}

	fmt.Fprint(s.Out, "Password: ")
	password, err := s.readPassword()
	fmt.Fprintln(s.Out)
	if err != nil {
		return Credential{}, false, err
	}

	return Credential{
		ServerUrl: serverUrl,
		Username:  username,
		Password:  password,
	}, true, nil
}

func (s *PromptSource) readPassword() (string, error) {
	if s.ReadPassword != nil {
		return s.ReadPassword()
	}
	return readPassword()
}

func (s *PromptSource) promptLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(s.Out, prompt); err != nil {
		return "", err
	}
	line, err := s.In.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
