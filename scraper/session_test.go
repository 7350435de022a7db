package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionCloseIsIdempotent(t *testing.T) {
	calls := 0
	s := &Session{
		cancels: []context.CancelFunc{
			func() { calls++ },
			func() { calls++ },
		},
	}

	s.Close()
	s.Close()
	s.Close()

	assert.Equal(t, 2, calls)
}

func TestSessionStartsUnauthenticated(t *testing.T) {
	s := &Session{baseURL: "https://traded.co"}

	assert.False(t, s.Authenticated())
	assert.Equal(t, "https://traded.co", s.BaseURL())
}
