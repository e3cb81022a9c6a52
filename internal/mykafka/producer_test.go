package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type writerMock struct {
	mock.Mock
}

func (m *writerMock) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, hasDeadline := ctx.Deadline()
	args := m.Called(hasDeadline, msgs)
	return args.Error(0)
}

func (m *writerMock) Close() error {
	return m.Called().Error(0)
}

func TestPublishEvent_EncodesAndKeys(t *testing.T) {
	w := &writerMock{}
	w.On("WriteMessages", true, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || msgs[0].Topic != CartTopic || string(msgs[0].Key) != "ns-1" {
			return false
		}
		var got map[string]any
		return json.Unmarshal(msgs[0].Value, &got) == nil && got["type"] == "cartUpdated"
	})).Return(nil).Once()

	p := &Producer{writer: w}
	err := p.PublishEvent(context.Background(), CartTopic, "ns-1", CartUpdated{Type: "cartUpdated", Client: "ns-1", Count: 2, At: time.Now().Unix()})
	require.NoError(t, err)
	w.AssertExpectations(t)
}

func TestPublishEvent_WrapsWriterError(t *testing.T) {
	w := &writerMock{}
	boom := errors.New("broker down")
	w.On("WriteMessages", true, mock.Anything).Return(boom)

	err := (&Producer{writer: w}).PublishEvent(context.Background(), "t", "k", map[string]int{"a": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestPublishEvent_UnencodableEvent(t *testing.T) {
	w := &writerMock{}
	err := (&Producer{writer: w}).PublishEvent(context.Background(), "t", "k", make(chan int))
	require.Error(t, err)
	w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestNewProducer_NeedsBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	w := &writerMock{}
	w.On("Close").Return(nil).Once()
	require.NoError(t, (&Producer{writer: w}).Close())
	w.AssertExpectations(t)
}

func TestClose_DrainsAsyncPublishes(t *testing.T) {
	w := &writerMock{}
	var written atomic.Int32
	w.On("WriteMessages", true, mock.Anything).
		After(50 * time.Millisecond).
		Run(func(mock.Arguments) { written.Add(1) }).
		Return(nil).Times(3)
	w.On("Close").Run(func(mock.Arguments) {
		assert.Equal(t, int32(3), written.Load(), "writer closed before in-flight writes finished")
	}).Return(nil).Once()

	p := &Producer{writer: w}
	var results atomic.Int32
	for i := 0; i < 3; i++ {
		p.PublishAsync(CartTopic, "ns-1", map[string]int{"n": i}, func(err error) {
			assert.NoError(t, err)
			results.Add(1)
		})
	}

	require.NoError(t, p.Close())
	assert.Equal(t, int32(3), results.Load())
	w.AssertExpectations(t)
}

func TestPublishAsync_AfterCloseFails(t *testing.T) {
	w := &writerMock{}
	w.On("Close").Return(nil).Once()
	p := &Producer{writer: w}
	require.NoError(t, p.Close())

	var got error
	p.PublishAsync(CartTopic, "ns-1", map[string]int{"n": 1}, func(err error) { got = err })
	assert.ErrorIs(t, got, ErrClosed)
	w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}
