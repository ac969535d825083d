package cmd

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/sirupsen/logrus"

	"enricher-worker/domain"
)

const (
	MaxBatchSize   = 10
	FlushInterval  = 1 * time.Second
	SQSMaxMessages = 10
	ReceiveBackoff = 5 * time.Second
)

type queueClient interface {
	ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, queueURL string, entries []types.DeleteMessageBatchRequestEntry) error
}

type jobProcessor interface {
	ProcessMessage(ctx context.Context, req domain.EnrichRequest) (domain.EnrichResult, error)
}

// workerPool feeds queue messages to N workers and deletes handled messages
// in batches.
type workerPool struct {
	queue      queueClient
	processor  jobProcessor
	queueURL   string
	numWorkers int
	logger     *logrus.Logger
}

// run blocks until ctx is cancelled, then drains in-flight jobs and flushes
// pending deletes.
func (p *workerPool) run(ctx context.Context) {
	jobs := make(chan types.Message, p.numWorkers*2)
	deletes := make(chan types.Message, p.numWorkers*2)

	// WaitGroup for workers
	var workerWg sync.WaitGroup
	// WaitGroup for the deleter
	var deleterWg sync.WaitGroup

	for i := 0; i < p.numWorkers; i++ {
		workerWg.Add(1)
		go p.worker(ctx, &workerWg, jobs, deletes, i)
	}

	deleterWg.Add(1)
	go p.batchDeleter(&deleterWg, deletes)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		default:
			out, err := p.queue.ReceiveMessages(ctx, p.queueURL, SQSMaxMessages)
			if err != nil {
				if ctx.Err() != nil {
					break loop
				}
				p.logger.WithError(err).Error("Failed to receive messages")
				select {
				case <-time.After(ReceiveBackoff):
				case <-ctx.Done():
					break loop
				}
				continue
			}

			for _, msg := range out.Messages {
				select {
				case jobs <- msg:
				case <-ctx.Done():
					break loop
				}
			}
		}
	}

	p.logger.Info("Main loop exited, waiting for workers to finish...")
	close(jobs)
	workerWg.Wait()
	close(deletes)
	deleterWg.Wait()
	p.logger.Info("Shutdown complete.")
}

func (p *workerPool) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan types.Message, deletes chan<- types.Message, id int) {
	defer wg.Done()
	log := p.logger.WithField("worker", id)

	for msg := range jobs {
		if ctx.Err() != nil {
			// Left on the queue; it becomes visible again after the timeout.
			continue
		}
		var req domain.EnrichRequest
		if msg.Body == nil {
			log.Warn("Dropping message without body")
		} else if err := json.Unmarshal([]byte(*msg.Body), &req); err != nil {
			// Undecodable messages are deleted so they do not loop forever.
			log.WithError(err).Error("Failed to unmarshal job")
		} else if _, err := p.processor.ProcessMessage(ctx, req); err != nil {
			log.WithError(err).WithField("job_id", req.ID).Warn("Job finished with error")
		}
		deletes <- msg
	}
}

func (p *workerPool) batchDeleter(wg *sync.WaitGroup, deletes <-chan types.Message) {
	defer wg.Done()
	var batch []types.DeleteMessageBatchRequestEntry
	ticker := time.NewTicker(FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := p.queue.DeleteMessageBatch(context.Background(), p.queueURL, batch); err != nil {
			p.logger.WithError(err).WithField("count", len(batch)).Error("Failed to delete batch")
		}
		batch = nil
	}

	for {
		select {
		case msg, ok := <-deletes:
			if !ok {
				flush()
				return
			}
			batch = append(batch, types.DeleteMessageBatchRequestEntry{
				Id:            msg.MessageId,
				ReceiptHandle: msg.ReceiptHandle,
			})
			if len(batch) >= MaxBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
