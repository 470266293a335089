package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		level   string
		want    slog.Level
		wantErr bool
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "INFO", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "verbose", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			l, err := ParseLogLevel(tc.level)
			if tc.wantErr {
				require.ErrorContains(t, err, "invalid log level")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, l)
		})
	}
}
