package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinatorStopsAtNMinusOneDone(t *testing.T) {
	c := NewCoordinator(3)
	assert.False(t, c.ReportDone(0))
	assert.False(t, c.Stopped())
	assert.True(t, c.ReportDone(1))
	assert.True(t, c.Stopped())
	select {
	case <-c.StopChan():
	default:
		t.Fatal("StopChan should be closed once stopped")
	}
}

func TestCoordinatorSingleWorkerStopsOnItsOwnDone(t *testing.T) {
	c := NewCoordinator(1)
	assert.True(t, c.ReportDone(0))
	assert.True(t, c.Stopped())
}

func TestCoordinatorReportDoneAfterStoppedIsNoop(t *testing.T) {
	c := NewCoordinator(2)
	assert.True(t, c.ReportDone(0))
	assert.False(t, c.ReportDone(1))
}
