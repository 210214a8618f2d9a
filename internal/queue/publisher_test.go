package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	return &sqs.SendMessageOutput{}, f.err
}

func TestSQSPublisherSendsEncodedEvent(t *testing.T) {
	fake := &fakeSQS{}
	pub := &SQSPublisher{client: fake, queueURL: "https://sqs.local/q"}

	evt := Event{Type: EventAnalysisCompleted, AnalysisID: "a-1", Version: 1}
	require.NoError(t, pub.Publish(context.Background(), evt))

	require.NotNil(t, fake.input)
	assert.Equal(t, "https://sqs.local/q", *fake.input.QueueUrl)
	decoded, err := DecodeEvent([]byte(*fake.input.MessageBody))
	require.NoError(t, err)
	assert.Equal(t, evt, decoded)
	assert.Equal(t, EventAnalysisCompleted, *fake.input.MessageAttributes["type"].StringValue)
}

func TestSQSPublisherWrapsError(t *testing.T) {
	boom := errors.New("boom")
	pub := &SQSPublisher{client: &fakeSQS{err: boom}, queueURL: "q"}

	err := pub.Publish(context.Background(), Event{Type: EventAnalysisCompleted})
	assert.ErrorIs(t, err, boom)
}

func TestNewSQSPublisherRequiresURL(t *testing.T) {
	_, err := NewSQSPublisher(context.Background(), " ", "")
	assert.Error(t, err)
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPPublisherRoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	pub := &AMQPPublisher{exchange: "analysis_events", ch: ch}

	require.NoError(t, pub.Publish(context.Background(), Event{Type: EventAnalysisCompleted, AnalysisID: "a-1"}))
	assert.Equal(t, "analysis_events", ch.exchange)
	assert.Equal(t, EventAnalysisCompleted, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	decoded, err := DecodeEvent(ch.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "a-1", decoded.AnalysisID)
}

func TestAMQPPublisherHonoursCancelledContext(t *testing.T) {
	ch := &fakeChannel{}
	pub := &AMQPPublisher{exchange: "x", ch: ch}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, pub.Publish(ctx, Event{Type: EventAnalysisCompleted}), context.Canceled)
	assert.Empty(t, ch.key)
}

func TestNewAMQPPublisherRequiresURL(t *testing.T) {
	_, err := NewAMQPPublisher("", "x")
	assert.Error(t, err)
}
