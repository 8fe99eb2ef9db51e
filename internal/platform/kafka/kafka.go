// Package kafka owns the broker connection for the visit activity stream.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"trailmark/internal/platform/config"
)

// Client wraps the franz-go client with topic bootstrap.
type Client struct {
	*kgo.Client
}

// New connects to the brokers and verifies the cluster is reachable.
// Returns nil if no brokers are configured (publishing disabled).
func New(ctx context.Context, cfg config.KafkaConfig) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// EnsureTopic creates the topic when it does not exist yet. Partition and
// replication counts suit a small cluster; operators can pre-create the
// topic with different settings and this becomes a no-op.
func (c *Client) EnsureTopic(ctx context.Context, topic string) error {
	adm := kadm.NewClient(c.Client)

	resp, err := adm.CreateTopic(ctx, 3, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// Close releases the broker connection. Callers drain their producers first;
// records still buffered here are failed, not flushed.
func (c *Client) Close() {
	c.Client.Close()
}
