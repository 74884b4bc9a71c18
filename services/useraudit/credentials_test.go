package useraudit

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	source := &StaticSource{Creds: []Credential{
		{ServerUrl: "a", Username: "u1", Password: "p1"},
		{ServerUrl: "b", Username: "u2", Password: "p2"},
	}}

	cred, ok, err := source.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", cred.ServerUrl)

	cred, ok, err = source.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b", cred.ServerUrl)

	_, ok, err = source.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPromptSource(t *testing.T) {
	var out bytes.Buffer
	source := &PromptSource{
		In:  bufio.NewReader(strings.NewReader("prtg.local\nprtgadmin\n")),
		Out: &out,
		ReadPassword: func() (string, error) {
			return "hunter2", nil
		},
	}

	cred, ok, err := source.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Credential{
		ServerUrl: "prtg.local",
		Username:  "prtgadmin",
		Password:  "hunter2",
	}, cred)
	require.Contains(t, out.String(), "Server URL: ")
	require.Contains(t, out.String(), "Password: ")
}

func TestPromptSourceGateDeclines(t *testing.T) {
	var out bytes.Buffer
	source := &PromptSource{
		In:   bufio.NewReader(strings.NewReader("n\n")),
		Out:  &out,
		Gate: true,
	}

	_, ok, err := source.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Contains(t, out.String(), "Add another server?")
}

func TestPromptSourceGateEOF(t *testing.T) {
	// piped stdin runs dry at the gate; that ends the loop cleanly
	// instead of failing the run
	var out bytes.Buffer
	source := &PromptSource{
		In:   bufio.NewReader(strings.NewReader("")),
		Out:  &out,
		Gate: true,
	}

	_, ok, err := source.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPromptSourceGateAccepts(t *testing.T) {
	var out bytes.Buffer
	source := &PromptSource{
		In:   bufio.NewReader(strings.NewReader("y\nprtg.local\nprtgadmin\n")),
		Out:  &out,
		Gate: true,
		ReadPassword: func() (string, error) {
			return "hunter2", nil
		},
	}

	cred, ok, err := source.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "prtg.local", cred.ServerUrl)
}
