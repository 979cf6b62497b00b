package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"/usr/bin/mpsc"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Equal(t, "/usr/bin/mpsc num\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_Summary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"mpsc", "5"}, &stdout, &stderr)
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.ElementsMatch(t, []string{"thread 0 done", "thread 1 done", "thread 2 done"}, lines[:3])
	assert.Equal(t, []string{"thread 0 => 5", "thread 1 => 5", "thread 2 => 5", "receiver done."}, lines[3:7])
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d+$`), lines[7])

	assert.Contains(t, stderr.String(), "mpsc: ")
	assert.NotContains(t, stderr.String(), "thread ")
}

func TestRun_BadNumberPanics(t *testing.T) {
	for _, arg := range []string{"abc", "-1", "18446744073709551616", ""} {
		var stdout bytes.Buffer
		p := capturePanic(func() {
			run([]string{"mpsc", arg}, &stdout, &bytes.Buffer{})
		})

		err, ok := p.(error)
		require.True(t, ok, "arg %q: expected error panic, got %v", arg, p)
		var numErr *strconv.NumError
		assert.True(t, errors.As(err, &numErr), "arg %q", arg)
		assert.Empty(t, stdout.String())
	}
}

// TestMainProcess checks exit statuses of the real binary entry point.
func TestMainProcess(t *testing.T) {
	if args, ok := os.LookupEnv("MPSC_MAIN_ARGS"); ok {
		// The test binary may not os.Exit(0), so only failures exit here.
		argv := append([]string{"mpsc"}, strings.Fields(args)...)
		if code := run(argv, os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
		return
	}

	cases := []struct {
		name     string
		args     string
		wantCode int
		stdout   func(t *testing.T, out string)
	}{
		{
			name:     "missing argument",
			args:     "",
			wantCode: 1,
			stdout: func(t *testing.T, out string) {
				assert.Equal(t, "mpsc num\n", out)
			},
		},
		{
			name:     "not a number",
			args:     "many",
			wantCode: 2,
			stdout: func(t *testing.T, out string) {
				assert.NotContains(t, out, "receiver done.")
			},
		},
		{
			name:     "zero",
			args:     "0",
			wantCode: 0,
			stdout: func(t *testing.T, out string) {
				for _, want := range []string{"thread 0 => 0", "thread 1 => 0", "thread 2 => 0", "receiver done."} {
					assert.Contains(t, out, want+"\n")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestMainProcess$")
			cmd.Env = append(os.Environ(), "MPSC_MAIN_ARGS="+tc.args)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.wantCode, code, "stderr:\n%s", stderr.String())
			tc.stdout(t, stdout.String())
		})
	}
}

func capturePanic(fn func()) (p any) {
	defer func() {
		p = recover()
	}()
	fn()
	return nil
}
