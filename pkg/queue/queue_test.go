package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimmedCount(t *testing.T) {
	assert.Equal(t, int64(0), trimmedCount(0))
	assert.Equal(t, int64(0), trimmedCount(MaxQueueLength-1))
	assert.Equal(t, int64(0), trimmedCount(MaxQueueLength))
	assert.Equal(t, int64(1), trimmedCount(MaxQueueLength+1))
	assert.Equal(t, int64(500), trimmedCount(MaxQueueLength+500))
}

func TestDroppedCounter(t *testing.T) {
	q := NewQueue(nil, nil)
	assert.Equal(t, int64(0), q.Dropped())
	q.CountDropped(3)
	q.CountDropped(2)
	assert.Equal(t, int64(5), q.Dropped())
}
