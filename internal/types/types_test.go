package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityRankOrdersCriticalFirst(t *testing.T) {
	assert.Less(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestTimeSlotDuration(t *testing.T) {
	s := TimeSlot{StartHour: 9, EndHour: 17}
	assert.Equal(t, 8, s.Duration())
}

func TestWorkChunkAssignmentTriple(t *testing.T) {
	c := &WorkChunk{}
	assert.False(t, c.IsAssigned())
	assert.True(t, c.AssignmentConsistent(), "all-nil triple is consistent")

	c.SetAssignment("e1", "2026-09-01", 9)
	assert.True(t, c.IsAssigned())
	assert.True(t, c.AssignmentConsistent())
	assert.Equal(t, "e1", *c.EngineerID)
	assert.Equal(t, "2026-09-01", *c.Date)
	assert.Equal(t, 9, *c.StartHour)

	c.ClearAssignment()
	assert.False(t, c.IsAssigned())
	assert.Nil(t, c.EngineerID)
	assert.Nil(t, c.Date)
	assert.Nil(t, c.StartHour)
}

func TestWorkChunkAssignmentConsistentDetectsPartialTriple(t *testing.T) {
	engineerID := "e1"
	c := &WorkChunk{EngineerID: &engineerID}
	assert.False(t, c.AssignmentConsistent())
}

func TestEffectiveDCPrefersChunkOverWork(t *testing.T) {
	work := &Work{DataCenterID: "dc-work"}
	chunkWithDC := &WorkChunk{DataCenterID: "dc-chunk"}
	assert.Equal(t, "dc-chunk", EffectiveDC(chunkWithDC, work))

	chunkWithoutDC := &WorkChunk{}
	assert.Equal(t, "dc-work", EffectiveDC(chunkWithoutDC, work))
}

func TestWorkTaskHours(t *testing.T) {
	task := WorkTask{EstimatedHours: 3, Quantity: 2}
	assert.Equal(t, 6, task.Hours())
}
