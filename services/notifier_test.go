package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

func qualifiedBroker(name string) models.BrokerProfile {
	return models.BrokerProfile{
		Name:       name,
		ProfileURL: "https://traded.co/agent/" + name,
		Region:     "New York",
		Classification: models.ClassificationResult{
			Good: 3, Bad: 1, PercentGood: 75, Qualifies: true,
		},
	}
}

func TestNotifierSendPayload(t *testing.T) {
	var got models.RegionBatch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	brokers := []models.BrokerProfile{qualifiedBroker("alice"), qualifiedBroker("bob")}

	require.NoError(t, n.Send(context.Background(), "New York", brokers))

	assert.Equal(t, "New York", got.Region)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Brokers, 2)
	assert.Equal(t, "alice", got.Brokers[0].Name)
	assert.True(t, got.Brokers[0].Classification.Qualifies)
}

func TestNotifierSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	err := n.Send(context.Background(), "New York", []models.BrokerProfile{qualifiedBroker("alice")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNotifierSendNoOps(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	// No URL configured.
	assert.NoError(t, NewNotifier("").Send(context.Background(), "New York",
		[]models.BrokerProfile{qualifiedBroker("alice")}))

	// Empty batch.
	assert.NoError(t, NewNotifier(srv.URL).Send(context.Background(), "New York", nil))

	// Nil receiver.
	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.Send(context.Background(), "New York",
		[]models.BrokerProfile{qualifiedBroker("alice")}))

	assert.False(t, called)
}
