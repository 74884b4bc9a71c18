package prtg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"-1":      StatusActive,
		"1":       StatusActive,
		"true":    StatusActive,
		"True":    StatusActive,
		"0":       StatusPaused,
		"false":   StatusPaused,
		"pending": "pending",
		"Unknown": "Unknown",
		"Error":   "Error",
	}
	for raw, want := range cases {
		require.Equal(t, want, NormalizeStatus(raw), "raw=%q", raw)
	}
}

func TestNormalizeLastLogin(t *testing.T) {
	cases := map[string]string{
		"8/5/2025 10:03:15 AM":    "8/5/2025",
		"8/5/2025 9:00:00 AM":     "8/5/2025",
		"12/31/2024 11:59:59 PM":  "12/31/2024",
		"8/5/2025":                "8/5/2025",
		"(has not logged in yet)": "(has not logged in yet)",
		"Not found":               "Not found",
		"Error":                   "Error",
		// numeric-looking but not a real calendar date: keep raw
		"13/45/2025": "13/45/2025",
	}
	for raw, want := range cases {
		require.Equal(t, want, NormalizeLastLogin(raw), "raw=%q", raw)
	}
}
