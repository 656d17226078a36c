package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"event-booking/pkg/utils"

	"go.uber.org/zap"
)

// MpesaGateway initiates STK push requests against an M-Pesa style API.
type MpesaGateway struct {
	client *http.Client
	config utils.PaymentConfig
	log    *zap.Logger
}

func NewMpesaGateway(config utils.PaymentConfig, log *zap.Logger) *MpesaGateway {
	return &MpesaGateway{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
		log:    log.With(zap.String("gateway", "mpesa")),
	}
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
}

func (g *MpesaGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(g.config.ShortCode + g.config.Passkey + timestamp),
	)

	desc := "Event booking"
	if req.IsGroup {
		desc = "Event group booking"
	}

	payload := stkPushRequest{
		BusinessShortCode: g.config.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount.StringFixed(2),
		PartyA:            req.PayerPhone,
		PartyB:            g.config.ShortCode,
		PhoneNumber:       req.PayerPhone,
		CallBackURL:       g.config.CallbackURL,
		AccountReference:  req.BookingID,
		TransactionDesc:   desc,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal stk push request: %v", ErrInitiation, err)
	}

	url := g.config.BaseURL + "/mpesa/stkpush/v1/processrequest"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrInitiation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.log.Error("STK push request failed",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
		)
		return nil, fmt.Errorf("%w: %v", ErrInitiation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.log.Error("STK push rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("booking_id", req.BookingID),
		)
		return nil, fmt.Errorf("%w: gateway returned status %d", ErrInitiation, resp.StatusCode)
	}

	var pushResp stkPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&pushResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInitiation, err)
	}

	if pushResp.ResponseCode != "0" {
		g.log.Warn("STK push declined",
			zap.String("response_code", pushResp.ResponseCode),
			zap.String("description", pushResp.ResponseDescription),
			zap.String("booking_id", req.BookingID),
		)
		return nil, fmt.Errorf("%w: %s", ErrInitiation, pushResp.ResponseDescription)
	}

	g.log.Info("STK push accepted",
		zap.String("booking_id", req.BookingID),
		zap.String("checkout_request_id", pushResp.CheckoutRequestID),
		zap.String("amount", req.Amount.StringFixed(2)),
	)

	return &InitiateResult{
		Accepted:    true,
		Message:     pushResp.CustomerMessage,
		ProviderRef: pushResp.CheckoutRequestID,
	}, nil
}
