package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/azizikri/coupon-catalog/internal/catalog"
	"github.com/azizikri/coupon-catalog/internal/config"
	"github.com/azizikri/coupon-catalog/internal/domain"
	"github.com/azizikri/coupon-catalog/internal/usecase"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/text/language"
)

// producer is the part of *kgo.Client used to publish records.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type Consumer struct {
	client        *kgo.Client
	producer      producer
	service       usecase.CatalogGateway
	defaultLocale language.Tag
	maxAttempts   int
	backoff       time.Duration
	now           func() time.Time
}

func NewConsumer(cfg *config.Config, client *kgo.Client, service usecase.CatalogGateway) *Consumer {
	c := newConsumer(cfg, client, service)
	c.client = client
	return c
}

func newConsumer(cfg *config.Config, p producer, service usecase.CatalogGateway) *Consumer {
	return &Consumer{
		producer:      p,
		service:       service,
		defaultLocale: catalog.ResolveLocale(cfg.DefaultLocale, "", catalog.DefaultLocale),
		maxAttempts:   cfg.RetryMaxAttempts(),
		backoff:       cfg.KafkaRetryBackoff,
		now:           time.Now,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			log.Printf("Consumer poll errors: %v", errs)
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			c.processRecord(ctx, record)
		}

		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			log.Printf("Failed to commit records: %v", err)
		}
	}
}

// StartRetry waits out each record's x-next-at header and republishes it
// to the request topic it came from.
func (c *Consumer) StartRetry(ctx context.Context) {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()

			if nextAt, ok := retryNextAt(record); ok && c.now().Before(nextAt) {
				select {
				case <-time.After(nextAt.Sub(c.now())):
				case <-ctx.Done():
					return
				}
			}

			newRecord := &kgo.Record{
				Topic:   requestTopicFor(record.Topic),
				Key:     record.Key,
				Value:   record.Value,
				Headers: record.Headers,
			}
			if err := c.producer.ProduceSync(ctx, newRecord).FirstErr(); err != nil {
				log.Printf("Failed to requeue retry record: %v", err)
			}
		}
		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			log.Printf("Failed to commit retry records: %v", err)
		}
	}
}

func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) {
	var req RequestPayload
	if err := json.Unmarshal(record.Value, &req); err != nil || req.CorrelationID == "" {
		c.sendError(ctx, record, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	locale := catalog.ResolveLocale(req.Locale, "", c.defaultLocale)

	var (
		resp *ResponsePayload
		err  error
	)
	switch record.Topic {
	case TopicViewRequest:
		var view *usecase.CatalogView
		view, err = c.service.ViewCatalog(ctx, usecase.ViewQuery{
			Filter: catalog.Filter{
				Status:   catalog.ParseStatusFilter(req.Status),
				Category: catalog.ParseCategoryFilter(req.Category),
			},
			Locale: locale,
		})
		resp = successResponse(req.CorrelationID)
		resp.View = view
	case TopicHistoryRequest:
		var view *usecase.CatalogView
		view, err = c.service.ViewHistory(ctx, locale)
		resp = successResponse(req.CorrelationID)
		resp.View = view
	case TopicGetRequest:
		if strings.TrimSpace(req.Code) == "" {
			c.sendError(ctx, record, ErrCodeInvalidRequest, "code is required")
			return
		}
		var rec *catalog.DisplayRecord
		rec, err = c.service.GetCoupon(ctx, req.Code, locale)
		resp = successResponse(req.CorrelationID)
		resp.Coupon = rec
	default:
		log.Printf("Ignoring record from unexpected topic %s", record.Topic)
		return
	}

	if err != nil {
		if retryable(err) && c.scheduleRetry(ctx, record, err) {
			return
		}
		code, message := mapError(err)
		resp = errorResponse(req.CorrelationID, code, message)
	}

	c.sendResponse(ctx, req.ReplyTo, resp)
}

// scheduleRetry re-queues a failed request with backoff. It returns false
// once attempts are exhausted, after dead-lettering the record.
func (c *Consumer) scheduleRetry(ctx context.Context, record *kgo.Record, cause error) bool {
	attempt := retryAttempt(record) + 1
	if attempt > c.maxAttempts {
		c.deadLetter(ctx, record, cause.Error())
		return false
	}

	nextAt := c.now().Add(time.Duration(attempt) * c.backoff)
	retryRecord := &kgo.Record{
		Topic: retryTopicFor(record.Topic),
		Key:   record.Key,
		Value: record.Value,
		Headers: []kgo.RecordHeader{
			{Key: RetryHeaderAttempt, Value: []byte(strconv.Itoa(attempt))},
			{Key: RetryHeaderNextAt, Value: []byte(nextAt.UTC().Format(time.RFC3339))},
			{Key: ErrorHeaderKey, Value: []byte(cause.Error())},
		},
	}
	if err := c.producer.ProduceSync(ctx, retryRecord).FirstErr(); err != nil {
		log.Printf("Failed to schedule retry %d for %s: %v", attempt, record.Topic, err)
		return false
	}
	return true
}

func (c *Consumer) sendResponse(ctx context.Context, topic string, resp *ResponsePayload) {
	if topic == "" {
		log.Printf("Dropping response %s: no reply topic", resp.CorrelationID)
		return
	}
	payload, _ := json.Marshal(resp)
	record := &kgo.Record{
		Topic: topic,
		Value: payload,
	}
	if err := c.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		log.Printf("Failed to send response to %s: %v", topic, err)
	}
}

func (c *Consumer) sendError(ctx context.Context, record *kgo.Record, code, message string) {
	var req RequestPayload
	_ = json.Unmarshal(record.Value, &req)

	if req.ReplyTo != "" {
		c.sendResponse(ctx, req.ReplyTo, errorResponse(req.CorrelationID, code, message))
	}
	c.deadLetter(ctx, record, message)
}

func (c *Consumer) deadLetter(ctx context.Context, record *kgo.Record, message string) {
	dlqRecord := &kgo.Record{
		Topic: requestTopicFor(record.Topic) + TopicDLQSuffix,
		Key:   record.Key,
		Value: record.Value,
		Headers: []kgo.RecordHeader{
			{Key: ErrorHeaderKey, Value: []byte(message)},
		},
	}
	if err := c.producer.ProduceSync(ctx, dlqRecord).FirstErr(); err != nil {
		log.Printf("Failed to dead-letter record from %s: %v", record.Topic, err)
	}
}

func requestTopicFor(topic string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(topic, TopicRetrySuffix), TopicRequestSuffix)
	return base + TopicRequestSuffix
}

func retryTopicFor(topic string) string {
	return strings.TrimSuffix(topic, TopicRequestSuffix) + TopicRetrySuffix
}

func headerValue(record *kgo.Record, key string) (string, bool) {
	for _, header := range record.Headers {
		if header.Key == key {
			return string(header.Value), true
		}
	}
	return "", false
}

func retryNextAt(record *kgo.Record) (time.Time, bool) {
	value, ok := headerValue(record, RetryHeaderNextAt)
	if !ok {
		return time.Time{}, false
	}
	nextAt, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return nextAt, true
}

func retryAttempt(record *kgo.Record) int {
	value, ok := headerValue(record, RetryHeaderAttempt)
	if !ok {
		return 0
	}
	attempt, err := strconv.Atoi(value)
	if err != nil || attempt < 0 {
		return 0
	}
	return attempt
}

func retryable(err error) bool {
	return !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrUnknownValue)
}

func successResponse(correlationID string) *ResponsePayload {
	return &ResponsePayload{
		SchemaVersion: SchemaVersion,
		CorrelationID: correlationID,
		Status:        StatusSuccess,
	}
}

func errorResponse(correlationID, code, message string) *ResponsePayload {
	return &ResponsePayload{
		SchemaVersion: SchemaVersion,
		CorrelationID: correlationID,
		Status:        StatusError,
		ErrorCode:     code,
		ErrorMessage:  message,
	}
}

func mapError(err error) (string, string) {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrCodeNotFound, domain.ErrNotFound.Error()
	}
	return ErrCodeInternalError, err.Error()
}
