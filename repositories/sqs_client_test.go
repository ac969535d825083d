package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go/middleware"
	"github.com/stretchr/testify/assert"
)

// Mock middleware to return specific output or error
func mockAWSMiddleware(output interface{}, err error) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Finalize.Add(
			middleware.FinalizeMiddlewareFunc("MockMiddleware", func(context.Context, middleware.FinalizeInput, middleware.FinalizeHandler) (middleware.FinalizeOutput, middleware.Metadata, error) {
				return middleware.FinalizeOutput{
					Result: output,
				}, middleware.Metadata{}, err
			}),
			middleware.Before,
		)
	}
}

func newMockSQS(output interface{}, err error) *AWSSQSClient {
	return NewSQSClient(sqs.NewFromConfig(aws.Config{Region: "us-east-1"}, func(o *sqs.Options) {
		o.APIOptions = append(o.APIOptions, mockAWSMiddleware(output, err))
	}))
}

func TestSQSClient_SendMessage(t *testing.T) {
	repo := newMockSQS(&sqs.SendMessageOutput{}, nil)
	err := repo.SendMessage(context.TODO(), "queue-url", map[string]string{"id": "job-1"})
	assert.NoError(t, err)

	repoErr := newMockSQS(nil, errors.New("aws error"))
	err = repoErr.SendMessage(context.TODO(), "queue-url", map[string]string{"id": "job-1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send message")
}

func TestSQSClient_SendMessage_MarshalError(t *testing.T) {
	repo := newMockSQS(&sqs.SendMessageOutput{}, nil)

	// Channel cannot be marshaled to JSON
	err := repo.SendMessage(context.TODO(), "queue-url", map[string]interface{}{"key": make(chan int)})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal message")
}

func TestSQSClient_ReceiveMessages(t *testing.T) {
	output := &sqs.ReceiveMessageOutput{
		Messages: []types.Message{
			{Body: aws.String(`{"kind":"content"}`), ReceiptHandle: aws.String("handle")},
		},
	}
	repo := newMockSQS(output, nil)
	res, err := repo.ReceiveMessages(context.TODO(), "queue-url", 10)
	assert.NoError(t, err)
	assert.Len(t, res.Messages, 1)

	repoErr := newMockSQS(nil, errors.New("aws error"))
	_, err = repoErr.ReceiveMessages(context.TODO(), "queue-url", 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to receive messages")
}

func TestSQSClient_DeleteMessageBatch(t *testing.T) {
	entries := []types.DeleteMessageBatchRequestEntry{
		{Id: aws.String("1"), ReceiptHandle: aws.String("h1")},
		{Id: aws.String("2"), ReceiptHandle: aws.String("h2")},
	}

	repo := newMockSQS(&sqs.DeleteMessageBatchOutput{}, nil)
	assert.NoError(t, repo.DeleteMessageBatch(context.TODO(), "queue-url", entries))

	partial := newMockSQS(&sqs.DeleteMessageBatchOutput{
		Failed: []types.BatchResultErrorEntry{{Id: aws.String("2")}},
	}, nil)
	err := partial.DeleteMessageBatch(context.TODO(), "queue-url", entries)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete 1 of 2 messages")

	repoErr := newMockSQS(nil, errors.New("aws error"))
	err = repoErr.DeleteMessageBatch(context.TODO(), "queue-url", entries)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete message batch")

	assert.NoError(t, repoErr.DeleteMessageBatch(context.TODO(), "queue-url", nil))
}
