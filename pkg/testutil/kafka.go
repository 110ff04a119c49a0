package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/kafka"

	pkgkafka "github.com/monowai/beancounter-sub001/pkg/kafka"
)

// KafkaContainer wraps a testcontainers Kafka instance.
type KafkaContainer struct {
	Container *kafka.KafkaContainer
	Brokers   []string
}

// NewKafkaContainer starts a single-node Kafka for testing. It is terminated
// when the test finishes.
func NewKafkaContainer(ctx context.Context, t *testing.T) *KafkaContainer {
	t.Helper()

	kafkaContainer, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("positions-test"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	kc := &KafkaContainer{Container: kafkaContainer}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate kafka container: %v", err)
		}
	})

	kc.Brokers, err = kafkaContainer.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}
	return kc
}

// Config returns a client configuration pointing at the container.
func (kc *KafkaContainer) Config(group string) pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       kc.Brokers,
		ConsumerGroup: group,
		ClientID:      "position-service-test",
	}
}
