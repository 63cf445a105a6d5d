package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	p := PendingTransaction{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, p.Expired(now))
	assert.False(t, p.Expired(now.Add(time.Hour))) // boundary is not yet expired
	assert.True(t, p.Expired(now.Add(time.Hour+time.Second)))
}

func TestMatchesPayment(t *testing.T) {
	p := PendingTransaction{Amount: 450, MerchantName: "Swiggy"}

	assert.True(t, p.MatchesPayment(450, "swiggy"))
	assert.True(t, p.MatchesPayment(450, "SWIGGY"))
	assert.False(t, p.MatchesPayment(450.5, "swiggy"))
	assert.False(t, p.MatchesPayment(450, "zomato"))
}
