package cmd

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"freelance-booking/internal/data/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrate_DryRunPrintsSchema(t *testing.T) {
	cmd := migrateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dry-run"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "CREATE TABLE IF NOT EXISTS payment_logs")
}

func TestAdminCreate_RequiresPasswordEnv(t *testing.T) {
	t.Setenv(adminPasswordEnv, "")

	cmd := adminCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"create", "--email", "owner@studio.dev", "--name", "Owner"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), adminPasswordEnv)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "worker", "migrate", "admin"})
}

type countingSessions struct {
	repository.SessionRepository
	calls atomic.Int32
}

func (c *countingSessions) CleanExpiredSessions(context.Context) (int64, error) {
	c.calls.Add(1)
	return 2, nil
}

func TestSweepSessions_RunsUntilCancelled(t *testing.T) {
	sessions := &countingSessions{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		sweepSessions(ctx, sessions, 5*time.Millisecond, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return sessions.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop after cancel")
	}
}
