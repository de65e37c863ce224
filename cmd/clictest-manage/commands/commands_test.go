package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
	"github.com/clictest/clictest/mocks"
)

const configDir = "../../../configs"

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestLoadConfig_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CLICTEST_TASK_TIME_TO_LIVE=12\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CLICTEST_TASK_TIME_TO_LIVE") })

	cfg, err := loadConfig(envFile, "local", configDir)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Task.TimeToLiveHours)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_MissingEnvFileIgnored(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.env"), "local", configDir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoadConfig_ProfileRequired(t *testing.T) {
	t.Setenv("CLICTEST_PROFILE", "")

	_, err := loadConfig("", "", configDir)
	require.Error(t, err)
}

func TestFilterFromFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		want      task.Filter
		wantField string
	}{
		{name: "no flags", args: nil, want: task.Filter{}},
		{
			name: "all flags",
			args: []string{"--owner", "tenant-a", "--status", "failure", "--type", "import", "--limit", "3"},
			want: task.Filter{Owner: "tenant-a", Status: task.StatusFailure, Type: task.TypeImport, Limit: 3},
		},
		{name: "unknown status", args: []string{"--status", "done"}, wantField: "status"},
		{name: "unknown type", args: []string{"--type", "export"}, wantField: "type"},
		{name: "negative limit", args: []string{"--limit", "-1"}, wantField: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				got    task.Filter
				gotErr error
			)
			cmd := &cli.Command{
				Name: "list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner"},
					&cli.StringFlag{Name: "status"},
					&cli.StringFlag{Name: "type"},
					&cli.IntFlag{Name: "limit"},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, gotErr = filterFromFlags(c)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), append([]string{"list"}, tt.args...)))

			if tt.wantField != "" {
				var verr *domain.ValidationError
				require.ErrorAs(t, gotErr, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	expires := testNow.Add(time.Hour)
	svc := mocks.NewMockTaskService(t)
	svc.EXPECT().ListTasks(mock.Anything, task.Filter{Owner: "tenant-a"}).Return([]task.Stub{
		{ID: "t-1", Type: task.TypeImport, Status: task.StatusSuccess, Owner: "tenant-a", UpdatedAt: testNow, ExpiresAt: &expires},
		{ID: "t-2", Type: task.TypeImport, Status: task.StatusPending, Owner: "tenant-a", UpdatedAt: testNow},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, listTasks(context.Background(), svc, task.Filter{Owner: "tenant-a"}, &out))

	assert.Contains(t, out.String(), "t-1")
	assert.Contains(t, out.String(), "t-2")
	assert.Contains(t, out.String(), "2026-03-01T13:00:00Z")
}

func TestListTasks_Empty(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockTaskService(t)
	svc.EXPECT().ListTasks(mock.Anything, task.Filter{}).Return(nil, nil)

	var out bytes.Buffer
	require.NoError(t, listTasks(context.Background(), svc, task.Filter{}, &out))
	assert.Equal(t, "no tasks found\n", out.String())
}

func TestListTasks_ServiceError(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockTaskService(t)
	svc.EXPECT().ListTasks(mock.Anything, task.Filter{}).Return(nil, domain.ErrUnavailable)

	err := listTasks(context.Background(), svc, task.Filter{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestPurgeExpired(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockTaskService(t)
	svc.EXPECT().PurgeExpired(mock.Anything, testNow).
		Return(&ports.PurgeResult{Removed: []string{"t-1", "t-2"}}, nil)

	var out bytes.Buffer
	err := purgeExpired(context.Background(), svc, testNow, &out, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, "removed 2 expired task(s) before 2026-03-01T12:00:00Z\n", out.String())
}

func TestPurgeExpired_PartialFailure(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockTaskService(t)
	svc.EXPECT().PurgeExpired(mock.Anything, testNow).Return(&ports.PurgeResult{
		Removed: []string{"t-1"},
		Errors:  []ports.PurgeError{{TaskID: "t-2", Err: errors.New("connection reset")}},
	}, nil)

	err := purgeExpired(context.Background(), svc, testNow, &bytes.Buffer{}, slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, err, ErrPurgeIncomplete)
}

func TestPurgeExpired_ServiceError(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockTaskService(t)
	svc.EXPECT().PurgeExpired(mock.Anything, testNow).Return(nil, domain.ErrUnavailable)

	err := purgeExpired(context.Background(), svc, testNow, &bytes.Buffer{}, slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
