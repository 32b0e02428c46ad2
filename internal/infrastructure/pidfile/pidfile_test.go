package pidfile_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/pidfile"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.pid")
	pf := pidfile.New(path)

	require.NoError(t, pf.Acquire())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(os.Getpid()), strings.TrimSpace(string(data)))

	require.NoError(t, pf.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, pf.Release(), "releasing twice is harmless")
}

func TestAcquire_ReplacesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0644))

	require.NoError(t, pidfile.New(path).Acquire())
}

func TestAcquire_RejectsLiveHolder(t *testing.T) {
	// The parent of the test binary is alive for the duration of the test
	path := filepath.Join(t.TempDir(), "service.pid")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getppid())), 0644))

	err := pidfile.New(path).Acquire()

	assert.ErrorContains(t, err, "already running")
}

func TestKillExisting_WithoutHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.pid")

	assert.NoError(t, pidfile.New(path).KillExisting())
}
