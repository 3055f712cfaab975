package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// ErrUnknownAction is returned for messages whose action is not created, updated or deleted.
var ErrUnknownAction = errors.New("unknown product action")

// ConsumerAPI defines the interface for SQS operations used by Consumer.
type ConsumerAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Handler reacts to a decoded product message. A returned error keeps the
// message in the queue for redelivery.
type Handler func(ctx context.Context, msg ProductMessage) error

// LogHandler writes every product notification to the default logger.
func LogHandler(_ context.Context, msg ProductMessage) error {
	slog.Info("Received product notification",
		slog.String("event_id", msg.EventID),
		slog.String("action", msg.Action),
		slog.Int64("product_id", msg.ProductID),
		slog.String("name", msg.Name),
		slog.String("price", msg.Price),
	)
	return nil
}

// receiveRetryDelay is how long Start waits after a failed receive.
const receiveRetryDelay = 5 * time.Second

// Consumer handles consuming messages from AWS SQS.
type Consumer struct {
	client     ConsumerAPI
	queueURL   string
	handle     Handler
	retryDelay time.Duration
}

// NewConsumer creates a new SQS Consumer with the given client and queue URL.
// A nil handler falls back to LogHandler.
func NewConsumer(client ConsumerAPI, queueURL string, handle Handler) *Consumer {
	if handle == nil {
		handle = LogHandler
	}
	return &Consumer{
		client:     client,
		queueURL:   queueURL,
		handle:     handle,
		retryDelay: receiveRetryDelay,
	}
}

// Start begins consuming messages from the SQS queue until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("Starting SQS consumer", slog.String("queueURL", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping SQS consumer")
			return ctx.Err()
		default:
			err := c.receiveMessages(ctx)
			if err == nil || ctx.Err() != nil {
				continue
			}
			slog.Error("Error receiving messages", slog.Any("err", err), slog.Duration("retry_in", c.retryDelay))
			select {
			case <-ctx.Done():
			case <-time.After(c.retryDelay):
			}
		}
	}
}

func (c *Consumer) receiveMessages(ctx context.Context) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20, // Long polling
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, message := range result.Messages {
		if err := c.processMessage(ctx, message); err != nil {
			slog.Error("Error processing message", slog.Any("err", err))
			continue
		}

		// Delete message after successful processing
		if err := c.deleteMessage(ctx, message); err != nil {
			slog.Error("Error deleting message", slog.Any("err", err))
		}
	}

	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return fmt.Errorf("message body is nil")
	}

	var productMsg ProductMessage
	if err := json.Unmarshal([]byte(*message.Body), &productMsg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	switch productMsg.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, productMsg.Action)
	}

	return c.handle(ctx, productMsg)
}

func (c *Consumer) deleteMessage(ctx context.Context, message types.Message) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
