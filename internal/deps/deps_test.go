package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsalehar/aero-data-fe/internal/core/logger"
	"github.com/lsalehar/aero-data-fe/pkg/errs"
	"github.com/lsalehar/aero-data-fe/pkg/execx"
)

func newTestRegenerator(t *testing.T) (*Regenerator, *execx.FakeRunner) {
	t.Helper()
	fake := execx.NewFakeRunner()
	log, err := logger.Init("error", "text", "", "", false)
	require.NoError(t, err)

	r, err := New("/repo", "uv lock", "uv pip compile pyproject.toml -o requirements.txt", fake, log)
	require.NoError(t, err)
	return r, fake
}

func TestLockAndCompile(t *testing.T) {
	r, fake := newTestRegenerator(t)
	ctx := context.Background()

	require.NoError(t, r.Lock(ctx))
	require.NoError(t, r.Compile(ctx))

	assert.Equal(t, []string{
		"uv lock",
		"uv pip compile pyproject.toml -o requirements.txt",
	}, fake.CallLines())
	assert.Equal(t, "uv", r.Tool())
}

func TestLockFailure(t *testing.T) {
	r, fake := newTestRegenerator(t)
	fake.Respond("uv lock", "resolution impossible", errors.New("exit status 1"))

	err := r.Lock(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrDepLock))
}

func TestCompileFailure(t *testing.T) {
	r, fake := newTestRegenerator(t)
	fake.Respond("uv pip compile", "", errors.New("exit status 2"))

	err := r.Compile(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrDepCompile))
}

func TestNewRejectsEmptyCommands(t *testing.T) {
	log, err := logger.Init("error", "text", "", "", false)
	require.NoError(t, err)

	_, err = New("", "", "uv pip compile", execx.NewFakeRunner(), log)
	require.Error(t, err)

	_, err = New("", "uv lock", "   ", execx.NewFakeRunner(), log)
	require.Error(t, err)
}

func TestCountPins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	content := `# This file was autogenerated by uv
#   uv pip compile pyproject.toml -o requirements.txt
-e file:.

reflex==0.6.4
toml==0.10.2
httpx==0.27.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := CountPins(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = CountPins(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
