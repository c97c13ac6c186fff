package baselines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationPolicyNeverMigratesWhenNotCheaperEvenAfterLoss(t *testing.T) {
	p := NewMigrationPolicy()
	for i := 0; i < 100; i++ {
		d := p.Evaluate("wl", 100, 99, 5) // optimal+migration=104 >= current=100
		assert.False(t, d.Migrate)
	}
}

func TestMigrationPolicyMigratesOnceLossExceedsMigrationCost(t *testing.T) {
	p := NewMigrationPolicy()
	var last MigrationDecision
	for i := 0; i < 20; i++ {
		last = p.Evaluate("wl", 100, 50, 10) // loss=50/tick, optimal+migration=60 < 100
		if last.Migrate {
			break
		}
	}
	assert.True(t, last.Migrate)
}

func TestMigrationPolicyResetsAccumulatedLossAfterMigration(t *testing.T) {
	p := NewMigrationPolicy()
	var migrated bool
	for i := 0; i < 20 && !migrated; i++ {
		migrated = p.Evaluate("wl", 100, 50, 10).Migrate
	}
	assert.True(t, migrated)
	assert.Equal(t, 0.0, p.AccumulatedLoss("wl"))
}

func TestMigrationPolicyTracksWorkloadsIndependently(t *testing.T) {
	p := NewMigrationPolicy()
	p.Evaluate("a", 100, 90, 1000)
	p.Evaluate("b", 200, 50, 1000)
	assert.Greater(t, p.AccumulatedLoss("b"), p.AccumulatedLoss("a"))
}
