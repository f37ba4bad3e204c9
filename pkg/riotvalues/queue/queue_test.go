package queuevalues

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueName(t *testing.T) {
	tests := []struct {
		queueId  int
		expected string
		ranked   bool
	}{
		{queueId: 420, expected: RankedSolo, ranked: true},
		{queueId: 440, expected: RankedFlex, ranked: true},
		{queueId: 450, expected: "ARAM"},
		{queueId: 0, expected: "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, QueueName(tt.queueId))
		assert.Equal(t, tt.ranked, IsRanked(tt.queueId))
	}
}
