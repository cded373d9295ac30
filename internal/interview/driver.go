package interview

import (
	"context"
	"errors"
	"log"

	"github.com/cenkalti/backoff/v4"

	"github.com/dminalm/filtro-candidatos/internal/llm"
)

// ErrUpstreamGeneration means both the primary and the fallback
// collaborator failed; the turn cannot produce a reply.
var ErrUpstreamGeneration = errors.New("generation failed on primary and fallback collaborators")

// Driver sends the accumulated conversation to the primary collaborator
// and falls back to a lower-cost one when the primary is exhausted. Each
// collaborator gets a bounded number of backoff retries.
type Driver struct {
	primary  llm.Client
	fallback llm.Client
	retries  uint64
}

func NewDriver(primary, fallback llm.Client, retries uint64) *Driver {
	return &Driver{primary: primary, fallback: fallback, retries: retries}
}

// Generate prepends the system prompt to the history and returns the raw
// collaborator reply. The caller records the user utterance before
// invoking this; a failed generation leaves that utterance in history
// with no assistant counterpart.
func (d *Driver) Generate(ctx context.Context, systemPrompt string, history []llm.Message) (string, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)

	content, err := d.attempt(ctx, d.primary, messages)
	if err == nil {
		return content, nil
	}
	log.Printf("⚠️ primary collaborator failed: %v; trying fallback", err)

	if d.fallback != nil {
		content, ferr := d.attempt(ctx, d.fallback, messages)
		if ferr == nil {
			return content, nil
		}
		log.Printf("❌ fallback collaborator failed: %v", ferr)
	}
	return "", ErrUpstreamGeneration
}

func (d *Driver) attempt(ctx context.Context, c llm.Client, messages []llm.Message) (string, error) {
	var content string
	op := func() error {
		resp, err := c.Generate(ctx, messages)
		if err != nil {
			return err
		}
		content = resp.Content
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), d.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return content, nil
}
