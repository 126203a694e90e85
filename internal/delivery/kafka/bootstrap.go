package kafka

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/azizikri/coupon-catalog/internal/config"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Topics lists every topic the service produces to or consumes from.
func Topics(instanceID string) []string {
	topics := make([]string, 0, 10)
	topics = append(topics, RequestTopics()...)
	topics = append(topics, RetryTopics()...)
	for _, topic := range RequestTopics() {
		topics = append(topics, topic+TopicDLQSuffix)
	}
	return append(topics, ReplyTopic(instanceID))
}

func EnsureTopics(ctx context.Context, client *kgo.Client, cfg *config.Config) error {
	adm := kadm.NewClient(client)

	partitions := cfg.TopicPartitions()
	retryPartitions := cfg.RetryPartitions()
	replicationFactor := cfg.ReplicationFactor()

	for _, topic := range Topics(cfg.KafkaInstanceID) {
		p := partitions
		if strings.HasSuffix(topic, TopicRetrySuffix) || strings.HasSuffix(topic, TopicDLQSuffix) {
			p = retryPartitions
		}

		resp, err := adm.CreateTopics(ctx, int32(p), replicationFactor, nil, topic)
		if err != nil {
			return fmt.Errorf("failed to create topic %s: %w", topic, err)
		}
		for _, detail := range resp {
			if detail.Err != nil && !strings.Contains(detail.Err.Error(), "already exists") {
				return fmt.Errorf("failed to create topic %s: %w", detail.Topic, detail.Err)
			}
		}
	}

	log.Println("All topics ensured")
	return nil
}
