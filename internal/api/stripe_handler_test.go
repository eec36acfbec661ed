package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the verifier accepts.
func signPayload(payload string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// eventPayload wraps an object into a signed-verifiable event envelope.
func eventPayload(eventType, object string) string {
	return fmt.Sprintf(`{"id":"evt_1","api_version":%q,"type":%q,"data":{"object":%s}}`,
		stripe.APIVersion, eventType, object)
}

func postWebhook(h *StripeWebhookHandler, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload))
	rr := httptest.NewRecorder()
	h.HandleWebhook(rr, req)
	return rr
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := NewStripeWebhookHandler(testWebhookSecret, nil, nil, nil)
	payload := eventPayload("charge.refunded", `{}`)

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	rr := httptest.NewRecorder()
	h.HandleWebhook(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhookChargeRefundedRejectsMalformedCharge(t *testing.T) {
	h := NewStripeWebhookHandler(testWebhookSecret, nil, nil, nil)

	// Valid envelope, but the charge payload cannot be decoded.
	rr := postWebhook(h, eventPayload("charge.refunded", `{"amount":"not-a-number"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhookChargeRefundedWithoutPaymentIntentIsAcked(t *testing.T) {
	h := NewStripeWebhookHandler(testWebhookSecret, nil, nil, nil)

	rr := postWebhook(h, eventPayload("charge.refunded", `{"id":"ch_1","amount":7100}`))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestWebhookIgnoresUnhandledEventTypes(t *testing.T) {
	h := NewStripeWebhookHandler(testWebhookSecret, nil, nil, nil)

	rr := postWebhook(h, eventPayload("invoice.created", `{}`))

	assert.Equal(t, http.StatusOK, rr.Code)
}
