package ai

import (
	"context"
	"sync"
	"time"
)

const defaultStubReply = "request received"

// StubClient не ходит в сеть. Через Delay (с учётом ctx) отвечает Reply или Err
// и запоминает каждый полученный запрос.
type StubClient struct {
	Reply string
	Err   error
	Delay time.Duration

	mu    sync.Mutex
	calls int
	last  Request
}

func NewStubClient(reply string) *StubClient {
	if reply == "" {
		reply = defaultStubReply
	}
	return &StubClient{Reply: reply}
}

func (c *StubClient) SendRequest(ctx context.Context, req Request) (string, error) {
	c.mu.Lock()
	c.calls++
	c.last = req
	c.mu.Unlock()

	if c.Delay > 0 {
		t := time.NewTimer(c.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	if c.Err != nil {
		return "", c.Err
	}
	return c.Reply, nil
}

// Calls возвращает, сколько запросов дошло до заглушки.
func (c *StubClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// LastRequest возвращает последний запрос или пустой Request.
func (c *StubClient) LastRequest() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
