package main

import (
	"database/sql"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{host: "", want: false},
		{host: "localhost", want: false},
		{host: "127.0.0.1", want: false},
		{host: "::1", want: false},
		{host: "db.veriqko.local", want: false},
		{host: "10.0.0.5", want: true},
		{host: "db.example.com", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			require.Equal(t, tt.want, isLikelyRemoteHost(tt.host))
		})
	}
}

func TestRenderSLALatchTableEmpty(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer func() {
		os.Stdout = oldStdout
	}()

	os.Stdout = w
	require.NoError(t, renderSLALatchTable(nil))
	require.NoError(t, w.Close())
	os.Stdout = oldStdout

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Contains(t, string(output), "No jobs have fired an SLA alert.")
}

func TestRenderSLALatchTable(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer func() {
		os.Stdout = oldStdout
	}()

	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []slaLatchRow{
		{
			SerialNumber: "SN-IP13-0001",
			Status:       "RESET",
			DueAt:        due,
			WarningAt:    sql.NullTime{Time: due.Add(-2 * time.Hour), Valid: true},
		},
	}

	os.Stdout = w
	require.NoError(t, renderSLALatchTable(rows))
	require.NoError(t, w.Close())
	os.Stdout = oldStdout

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	outStr := string(output)
	require.Contains(t, outStr, "SN-IP13-0001")
	require.Contains(t, outStr, "RESET")
	// Breach latch never fired for this job, shown as a dash.
	require.Contains(t, outStr, "-")
}

func TestFormatRedisTTL(t *testing.T) {
	require.Equal(t, "no expiry", formatRedisTTL(-1*time.Second))
	require.Equal(t, "key missing", formatRedisTTL(-2*time.Second))
	require.Equal(t, "30m0s", formatRedisTTL(30*time.Minute))
}
