package llm

import (
	"testing"

	"github.com/rs/zerolog"

	coreerrors "github.com/ametelin/record-sweeper/internal/core/errors"
	"github.com/ametelin/record-sweeper/internal/platform/config"
)

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	logger := zerolog.Nop()
	c := NewOpenAI(&config.Config{RateLimitRPS: 1}, &logger).(*openaiClient)

	for i := 0; i < circuitBreakerThreshold-1; i++ {
		c.recordFailure()
	}

	if err := c.checkCircuit(); err != nil {
		t.Fatalf("circuit open too early: %v", err)
	}

	c.recordFailure()

	if err := c.checkCircuit(); !coreerrors.Is(err, coreerrors.ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	logger := zerolog.Nop()
	c := NewOpenAI(&config.Config{RateLimitRPS: 1}, &logger).(*openaiClient)

	for i := 0; i < circuitBreakerThreshold-1; i++ {
		c.recordFailure()
	}

	c.recordSuccess()

	for i := 0; i < circuitBreakerThreshold-1; i++ {
		c.recordFailure()
	}

	if err := c.checkCircuit(); err != nil {
		t.Fatalf("success must reset the failure streak: %v", err)
	}
}
