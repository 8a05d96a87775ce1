package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingAcker struct {
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *recordingAcker) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *recordingAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *recordingAcker) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))

	base := errors.New("bad payload")
	err := fmt.Errorf("handler: %w", Permanent(base))
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "bad payload", Permanent(base).Error())

	assert.False(t, IsPermanent(base))
	assert.Equal(t, "permanent error", (&PermanentError{}).Error())
}

func TestHandleAckDecisions(t *testing.T) {
	cases := []struct {
		name        string
		result      error
		wantAck     bool
		wantRequeue bool
	}{
		{"success acks", nil, true, false},
		{"permanent drops", Permanent(errors.New("malformed")), false, false},
		{"transient requeues", errors.New("db down"), false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			acker := &recordingAcker{}
			s := &Subscriber{log: zap.NewNop()}
			d := amqp.Delivery{Acknowledger: acker, DeliveryTag: 7, Body: []byte(`{}`), RoutingKey: "analysis.result"}

			var got *Message
			s.handle(context.Background(), d, func(ctx context.Context, msg *Message) error {
				got = msg
				return tc.result
			})

			assert.Equal(t, []byte(`{}`), got.Body)
			assert.Equal(t, "analysis.result", got.RoutingKey)
			if tc.wantAck {
				assert.Equal(t, []uint64{7}, acker.acked)
				assert.Empty(t, acker.nacked)
				return
			}
			assert.Empty(t, acker.acked)
			assert.Equal(t, []uint64{7}, acker.nacked)
			assert.Equal(t, []bool{tc.wantRequeue}, acker.requeue)
		})
	}
}
