package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/azizikri/coupon-catalog/internal/catalog"
	"github.com/azizikri/coupon-catalog/internal/config"
	"github.com/azizikri/coupon-catalog/internal/domain"
	"github.com/azizikri/coupon-catalog/internal/usecase"
	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/text/language"
)

// Gateway serves catalog requests over Kafka request/reply. Replies land on
// this instance's reply topic and are routed back by correlation ID.
type Gateway struct {
	producer    producer
	replyTopic  string
	timeout     time.Duration
	pendingResp sync.Map
}

func NewGateway(cfg *config.Config, client *kgo.Client) *Gateway {
	return newGateway(cfg, client)
}

func newGateway(cfg *config.Config, p producer) *Gateway {
	timeout := cfg.KafkaRequestTimeout
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	return &Gateway{
		producer:   p,
		replyTopic: ReplyTopic(cfg.KafkaInstanceID),
		timeout:    timeout,
	}
}

func (g *Gateway) newRequest() RequestPayload {
	return RequestPayload{
		SchemaVersion: SchemaVersion,
		CorrelationID: uuid.New().String(),
		ReplyTo:       g.replyTopic,
	}
}

func (g *Gateway) ViewCatalog(ctx context.Context, query usecase.ViewQuery) (*usecase.CatalogView, error) {
	req := g.newRequest()
	req.Status = string(query.Filter.Status)
	req.Category = string(query.Filter.Category)
	req.Locale = localeString(query.Locale)

	resp, err := g.requestReply(ctx, TopicViewRequest, nil, req)
	if err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, g.mapError(resp.ErrorCode, resp.ErrorMessage)
	}
	return resp.View, nil
}

func (g *Gateway) ViewHistory(ctx context.Context, locale language.Tag) (*usecase.CatalogView, error) {
	req := g.newRequest()
	req.Locale = localeString(locale)

	resp, err := g.requestReply(ctx, TopicHistoryRequest, nil, req)
	if err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, g.mapError(resp.ErrorCode, resp.ErrorMessage)
	}
	return resp.View, nil
}

func (g *Gateway) GetCoupon(ctx context.Context, code string, locale language.Tag) (*catalog.DisplayRecord, error) {
	req := g.newRequest()
	req.Code = code
	req.Locale = localeString(locale)

	resp, err := g.requestReply(ctx, TopicGetRequest, []byte(code), req)
	if err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, g.mapError(resp.ErrorCode, resp.ErrorMessage)
	}
	return resp.Coupon, nil
}

// FilterOptions is static vocabulary and needs no round trip.
func (g *Gateway) FilterOptions() usecase.FilterOptions {
	return usecase.NewFilterOptions()
}

func (g *Gateway) requestReply(ctx context.Context, topic string, key []byte, req RequestPayload) (*ResponsePayload, error) {
	respChan := make(chan *ResponsePayload, 1)
	g.pendingResp.Store(req.CorrelationID, respChan)
	defer g.pendingResp.Delete(req.CorrelationID)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	record := &kgo.Record{
		Topic: topic,
		Key:   key,
		Value: payload,
	}

	if err := g.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return nil, fmt.Errorf("produce %s: %w", topic, err)
	}

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case resp := <-respChan:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, domain.ErrTimeout
	}
}

func (g *Gateway) HandleResponse(payload []byte) {
	var resp ResponsePayload
	if err := json.Unmarshal(payload, &resp); err != nil {
		log.Printf("Failed to decode response payload: %v", err)
		return
	}

	if ch, ok := g.pendingResp.Load(resp.CorrelationID); ok {
		select {
		case ch.(chan *ResponsePayload) <- &resp:
		default:
			log.Printf("Duplicate response for correlation ID %s", resp.CorrelationID)
		}
		return
	}

	log.Printf("No pending response for correlation ID %s", resp.CorrelationID)
}

func (g *Gateway) mapError(code, message string) error {
	switch code {
	case ErrCodeNotFound:
		return domain.ErrNotFound
	default:
		return errors.New(message)
	}
}

func localeString(tag language.Tag) string {
	if tag == language.Und {
		return ""
	}
	return tag.String()
}

var _ usecase.CatalogGateway = (*Gateway)(nil)
