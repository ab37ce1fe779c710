//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSLAStatusAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  *time.Time
		want SLAStatus
	}{
		{"no deadline", nil, SLAStatusNone},
		{"overdue", timePtr(now.Add(-time.Minute)), SLAStatusCritical},
		{"due right now", timePtr(now), SLAStatusWarning},
		{"inside warning window", timePtr(now.Add(3 * time.Hour)), SLAStatusWarning},
		{"just inside window", timePtr(now.Add(4*time.Hour - time.Second)), SLAStatusWarning},
		{"exactly at window edge", timePtr(now.Add(4 * time.Hour)), SLAStatusHealthy},
		{"comfortably in the future", timePtr(now.Add(24 * time.Hour)), SLAStatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SLAStatusAt(tt.due, now))
		})
	}
}

func TestYieldRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		failed    int
		want      float64
	}{
		{"no closed jobs", 0, 0, 0},
		{"all completed", 10, 0, 100},
		{"all failed", 0, 5, 0},
		{"two thirds", 2, 1, 66.7},
		{"one third", 1, 2, 33.3},
		{"half", 3, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, YieldRate(tt.completed, tt.failed), 0.001)
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
