package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

// RequestSigner signs REST requests with the account's HMAC-SHA256 key pair.
type RequestSigner struct {
	apiKey    string
	secretKey string
}

func NewRequestSigner(apiKey, secretKey string) *RequestSigner {
	return &RequestSigner{apiKey: apiKey, secretKey: secretKey}
}

// SignRequest adds the API key header, a timestamp and the query signature.
func (s *RequestSigner) SignRequest(req *http.Request) error {
	req.Header.Set("X-MBX-APIKEY", s.apiKey)

	q := req.URL.Query()
	if q.Get("timestamp") == "" {
		q.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	}

	queryString := q.Encode()
	mac := hmac.New(sha256.New, []byte(s.secretKey))
	mac.Write([]byte(queryString))
	q.Set("signature", hex.EncodeToString(mac.Sum(nil)))

	req.URL.RawQuery = q.Encode()
	return nil
}
