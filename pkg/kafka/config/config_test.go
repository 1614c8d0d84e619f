package kafka_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DisabledByDefault(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled())
}

func TestLoad_SplitsBrokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, ,kafka-2:9092 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.True(t, cfg.Enabled())
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{
		ProducerMaxAttempts:  0,
		ProducerBatchTimeout: DefaultProducerBatchTimeout,
		ProducerRequireAcks:  2,
		ProducerCompression:  "brotli",
		PublishTimeout:       DefaultPublishTimeout,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. ProducerMaxAttempts")
	assert.Contains(t, err.Error(), "ProducerCompression")
	assert.Contains(t, err.Error(), "ProducerRequireAcks")
}
