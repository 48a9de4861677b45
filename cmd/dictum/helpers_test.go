package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/steveyegge/dictum/internal/config"
	"github.com/steveyegge/dictum/internal/types"
)

// testEnv is an initialized store in a temp working directory with a
// clock that advances one second per reading.
type testEnv struct {
	t    *testing.T
	dir  string
	now  time.Time
	tick func() time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DICTUM_DIR", "")
	t.Setenv("DICTUM_PREFIX", "")
	t.Setenv("DICTUM_DEFAULT_FORMAT", "")
	t.Setenv("DICTUM_DEFAULT_AUTHOR", "")
	t.Setenv("DICTUM_ACTOR", "tester")
	t.Cleanup(config.ResetForTesting)

	env := &testEnv{t: t, dir: dir, now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	env.tick = func() time.Time {
		env.now = env.now.Add(time.Second)
		return env.now
	}
	return env
}

func (e *testEnv) init() *testEnv {
	e.t.Helper()
	e.mustRun("init")
	return e
}

// run executes args with empty stdin.
func (e *testEnv) run(args ...string) (stdout, stderr string, code int) {
	return e.runWithInput("", args...)
}

func (e *testEnv) runWithInput(stdin string, args ...string) (string, string, int) {
	var out, errOut bytes.Buffer
	a := &app{now: e.tick}
	code := a.execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), code
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, errOut, code := e.run(args...)
	require.Equal(e.t, 0, code, "dictum %v failed: %s", args, errOut)
	return out
}

// add records a decision and returns it, decoded from JSON output.
func (e *testEnv) add(title string, flags ...string) *types.Decision {
	e.t.Helper()
	args := append([]string{"add", title, "--format", "json"}, flags...)
	out := e.mustRun(args...)
	var d types.Decision
	require.NoError(e.t, json.Unmarshal([]byte(out), &d))
	return &d
}

func (e *testEnv) show(id string) *types.Decision {
	e.t.Helper()
	out := e.mustRun("show", id, "--format", "json")
	var d types.Decision
	require.NoError(e.t, json.Unmarshal([]byte(out), &d))
	return &d
}
