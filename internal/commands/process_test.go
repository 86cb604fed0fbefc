package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settled-dev/settled/internal/config"
	"github.com/settled-dev/settled/internal/rejectlog"
)

func writeInput(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(rows), 0o644))
	return path
}

func run(t *testing.T, rows string, cfg *config.Config) (string, string) {
	t.Helper()
	path := writeInput(t, rows)
	var stdout, stderr bytes.Buffer
	require.NoError(t, runProcess(path, "csv", cfg, &stdout, &stderr))
	return stdout.String(), stderr.String()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Rejects.Path = filepath.Join(t.TempDir(), "rejects.csv")
	return cfg
}

func TestProcess_DepositAndWithdrawal(t *testing.T) {
	stdout, stderr := run(t, "type,client,tx,amount\n"+
		"deposit,1,1,5.0\n"+
		"withdrawal,1,2,3.0\n", testConfig(t))

	assert.Empty(t, stderr)
	assert.Equal(t, "client,available,held,total,locked\n"+
		"1,2.0000,0.0000,2.0000,false\n", stdout)
}

func TestProcess_DisputeLifecycle(t *testing.T) {
	stdout, _ := run(t, "type,client,tx,amount\n"+
		"deposit,1,1,5.0\n"+
		"dispute,1,1,\n"+
		"chargeback,1,1,\n", testConfig(t))

	assert.Contains(t, stdout, "1,0.0000,0.0000,0.0000,true")
}

func TestProcess_RejectsReportedAndLogged(t *testing.T) {
	cfg := testConfig(t)
	stdout, stderr := run(t, "type,client,tx,amount\n"+
		"deposit,1,1,5.0\n"+
		"withdrawal,1,2,9.0\n"+
		"deposit,1,3,not-a-number\n", cfg)

	assert.Contains(t, stdout, "1,5.0000,0.0000,5.0000,false")
	assert.Contains(t, stderr, "insufficient funds")
	assert.Contains(t, stderr, "malformed record")

	entries, err := rejectlog.Read(cfg.Rejects.Path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].RunID, entries[1].RunID, "one run ID per process run")
	assert.Equal(t, uint32(2), entries[0].TxID)
}

func TestProcess_RejectLogDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rejects.Enabled = false

	_, stderr := run(t, "type,client,tx,amount\n"+
		"withdrawal,1,1,9.0\n", cfg)

	assert.Contains(t, stderr, "insufficient funds")
	_, err := os.Stat(cfg.Rejects.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestProcess_MultipleClients(t *testing.T) {
	stdout, _ := run(t, "type,client,tx,amount\n"+
		"deposit,2,1,1.0\n"+
		"deposit,1,2,2.0\n", testConfig(t))

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,"), "output sorted by client")
	assert.True(t, strings.HasPrefix(lines[2], "2,"))
}

func TestProcess_MissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := runProcess(filepath.Join(t.TempDir(), "nope.csv"), "csv", testConfig(t), &stdout, &stderr)
	require.Error(t, err)
}

func TestProcess_UnknownOutputFormat(t *testing.T) {
	path := writeInput(t, "type,client,tx,amount\n")
	var stdout, stderr bytes.Buffer
	err := runProcess(path, "xml", testConfig(t), &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "settled.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int32(4), cfg.Output.Scale)
}
