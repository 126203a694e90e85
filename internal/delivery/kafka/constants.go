package kafka

import "time"

const (
	TopicViewRequest    = "coupon.view.req"
	TopicHistoryRequest = "coupon.history.req"
	TopicGetRequest     = "coupon.get.req"
	TopicViewRetry      = "coupon.view.retry"
	TopicHistoryRetry   = "coupon.history.retry"
	TopicGetRetry       = "coupon.get.retry"
	TopicReplyPrefix    = "coupon.reply."
	TopicRequestSuffix  = ".req"
	TopicRetrySuffix    = ".retry"
	TopicDLQSuffix      = ".dlq"

	RequestTimeout = 3 * time.Second

	RetryHeaderNextAt  = "x-next-at"
	RetryHeaderAttempt = "x-attempt"
	ErrorHeaderKey     = "x-error"

	SchemaVersion = 1
)

// RequestTopics are consumed by the main consumer group.
func RequestTopics() []string {
	return []string{TopicViewRequest, TopicHistoryRequest, TopicGetRequest}
}

// RetryTopics are consumed by the retry consumer group.
func RetryTopics() []string {
	return []string{TopicViewRetry, TopicHistoryRetry, TopicGetRetry}
}

func ReplyTopic(instanceID string) string {
	return TopicReplyPrefix + instanceID
}
