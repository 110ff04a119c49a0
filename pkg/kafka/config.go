package kafka

import (
	"crypto/tls"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Config holds Kafka connection parameters.
type Config struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string

	// SASLMechanism is "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512".
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string

	TLS         bool
	SASLEnabled bool
}

// mechanism resolves the configured SASL mechanism.
func (c Config) mechanism() (sasl.Mechanism, error) {
	switch c.SASLMechanism {
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
	case "PLAIN", "":
		return plain.Mechanism{Username: c.SASLUsername, Password: c.SASLPassword}, nil
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism %q", c.SASLMechanism)
	}
}

func (c Config) tlsConfig() *tls.Config {
	if !c.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// dialer builds a reader dialer, or nil when neither TLS nor SASL is on.
func (c Config) dialer() (*kafkago.Dialer, error) {
	if !c.TLS && !c.SASLEnabled {
		return nil, nil
	}
	d := &kafkago.Dialer{ClientID: c.ClientID, TLS: c.tlsConfig(), DualStack: true}
	if c.SASLEnabled {
		m, err := c.mechanism()
		if err != nil {
			return nil, err
		}
		d.SASLMechanism = m
	}
	return d, nil
}

// transport builds a writer transport, or nil for the kafka-go default.
func (c Config) transport() (*kafkago.Transport, error) {
	if !c.TLS && !c.SASLEnabled {
		return nil, nil
	}
	t := &kafkago.Transport{ClientID: c.ClientID, TLS: c.tlsConfig()}
	if c.SASLEnabled {
		m, err := c.mechanism()
		if err != nil {
			return nil, err
		}
		t.SASL = m
	}
	return t, nil
}
