package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity_IsValid(t *testing.T) {
	tests := []struct {
		severity Severity
		valid    bool
	}{
		{SeverityInfo, true},
		{SeverityWarning, true},
		{SeverityCritical, true},
		{Severity("fatal"), false},
		{Severity(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.severity.IsValid())
		})
	}
}

func TestPriorityLevel_Rank(t *testing.T) {
	// The feed orders critical > high > medium > low regardless of the
	// lexicographic order of the level names.
	assert.Greater(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, 0, PriorityLevel("unknown").Rank())
}

func TestPriorityLevel_IsPriority(t *testing.T) {
	assert.True(t, PriorityCritical.IsPriority())
	assert.True(t, PriorityHigh.IsPriority())
	assert.False(t, PriorityMedium.IsPriority())
	assert.False(t, PriorityLow.IsPriority())
}

func TestNewAdminNotification(t *testing.T) {
	n := NewAdminNotification("system", "Maintenance", "Scheduled maintenance tonight")

	assert.Equal(t, "system", n.Type)
	assert.Equal(t, "Maintenance", n.Title)
	assert.Equal(t, SeverityInfo, n.Severity)
	assert.Equal(t, PriorityMedium, n.PriorityLevel)
	assert.False(t, n.IsRead)
	assert.Nil(t, n.AdminID, "defaults to broadcast")
	assert.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
}
