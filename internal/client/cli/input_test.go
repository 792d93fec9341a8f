package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var buf bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  jean@example.com  \nnext\n"))

	got, err := GetSimpleText(r, "Enter email", &buf)
	require.NoError(t, err)
	assert.Equal(t, "jean@example.com", got)
	assert.Equal(t, "Enter email\n> ", buf.String())

	got, err = GetSimpleText(r, "again", &buf)
	require.NoError(t, err)
	assert.Equal(t, "next", got)
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("tail"))
	got, err := GetSimpleText(r, "p", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "tail", got)

	_, err = GetSimpleText(r, "p", &bytes.Buffer{})
	assert.Error(t, err)
}

func stubTerminal(t *testing.T, terminal bool, pw []byte, err error) {
	t.Helper()
	origIs, origRead := isTerminal, readPassword
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return pw, err }
	t.Cleanup(func() { isTerminal, readPassword = origIs, origRead })
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("hunter22"), nil)

	var buf bytes.Buffer
	got, err := GetPassword(bufio.NewReader(strings.NewReader("ignored\n")), &buf)
	require.NoError(t, err)
	assert.Equal(t, "hunter22", got)
	assert.Equal(t, "Enter password: \n", buf.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("tty gone"))

	_, err := GetPassword(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	assert.EqualError(t, err, "tty gone")
}

func TestGetPassword_PipedInput(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))

	got, err := GetPassword(bufio.NewReader(strings.NewReader("s3cret!\n")), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", got)
}
