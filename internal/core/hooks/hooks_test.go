package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
	"github.com/lsalehar/aero-data-fe/internal/core/logger"
	"github.com/lsalehar/aero-data-fe/pkg/errs"
	"github.com/lsalehar/aero-data-fe/pkg/execx"
)

func newTestHost(hooks map[string][]v1.HookSpec) (*Host, *execx.FakeRunner) {
	fake := execx.NewFakeRunner()
	log, _ := logger.Init("error", "text", "", "", false)
	return NewHost(hooks, fake, log), fake
}

func TestDispatchRunsInOrder(t *testing.T) {
	host, fake := newTestHost(map[string][]v1.HookSpec{
		v1.HookPostPush: {
			{Name: "notify", Command: "./scripts/notify.sh", Args: []string{"released"}},
			{Name: "changelog", Command: "./scripts/changelog.sh"},
		},
	})

	require.NoError(t, host.Dispatch(context.Background(), v1.HookPostPush))
	assert.Equal(t, []string{
		"./scripts/notify.sh released",
		"./scripts/changelog.sh",
	}, fake.CallLines())
}

func TestDispatchStopsOnFirstFailure(t *testing.T) {
	host, fake := newTestHost(map[string][]v1.HookSpec{
		v1.HookPreRelease: {
			{Name: "lint", Command: "./scripts/lint.sh"},
			{Name: "never", Command: "./scripts/never.sh"},
		},
	})
	fake.Respond("./scripts/lint.sh", "lint errors found", errors.New("exit status 1"))

	err := host.Dispatch(context.Background(), v1.HookPreRelease)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrHookFailed))
	assert.False(t, fake.Called("./scripts/never.sh"))
}

func TestDispatchEmptyPoint(t *testing.T) {
	host, fake := newTestHost(nil)
	require.NoError(t, host.Dispatch(context.Background(), v1.HookPostDeploy))
	assert.Empty(t, fake.CallLines())
	assert.Zero(t, host.Count(v1.HookPostDeploy))
}
