package rail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// PayPalRail drives the payout network's legacy payments API: create a
// payment, execute it with the payer's approval id, then push a payout to
// the receiver's registered email. Current SDKs no longer expose this
// create/execute flow, so the rail speaks the wire protocol directly.
type PayPalRail struct {
	httpClient  *http.Client
	baseURL     string
	clientID    string
	secret      string
	frontendURL string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalRail(hc *http.Client, baseURL, clientID, secret, frontendURL string) *PayPalRail {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &PayPalRail{
		httpClient:  hc,
		baseURL:     strings.TrimRight(baseURL, "/"),
		clientID:    clientID,
		secret:      secret,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

var _ PayoutNetwork = (*PayPalRail)(nil)

func (r *PayPalRail) token(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.accessToken != "" && time.Now().Before(r.tokenExpiry) {
		return r.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(r.clientID, r.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", &Error{Message: "payout network unreachable: " + err.Error()}
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken      string `json:"access_token"`
		ExpiresIn        int    `json:"expires_in"`
		ErrorDescription string `json:"error_description"`
		ErrField         string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		msg := body.ErrorDescription
		if msg == "" {
			msg = body.ErrField
		}
		return "", &Error{Message: "payout network auth failed: " + msg}
	}
	r.accessToken = body.AccessToken
	// renew a minute early
	r.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn-60) * time.Second)
	return r.accessToken, nil
}

func (r *PayPalRail) post(ctx context.Context, path string, payload any, out any) error {
	tok, err := r.token(ctx)
	if err != nil {
		return err
	}
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &Error{Message: "payout network unreachable: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
			Name    string `json:"name"`
		}
		_ = json.Unmarshal(raw, &e)
		msg := e.Message
		if msg == "" {
			msg = e.Name
		}
		if msg == "" {
			msg = fmt.Sprintf("payout network error (%d)", resp.StatusCode)
		}
		return &Error{Message: msg}
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

type paypalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// Initiate creates a payment the payer must approve in the payout network's
// UI; the approval URL goes back to the client.
func (r *PayPalRail) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	returnURL := r.frontendURL + "/borrower-dashboard"
	if req.PayerRole == "LENDER" {
		returnURL = r.frontendURL + "/lender-dashboard"
	}

	payload := map[string]any{
		"intent": "sale",
		"payer":  map[string]any{"payment_method": "paypal"},
		"transactions": []map[string]any{{
			"amount": map[string]any{
				"total":    fmt.Sprintf("%.2f", req.Amount),
				"currency": "USD",
			},
			"description": fmt.Sprintf("%s to %s payment for loan %s", req.PayerRole, req.ReceiverRole, req.LoanID),
			"custom":      "loan_" + req.LoanID,
		}},
		"redirect_urls": map[string]any{
			"return_url": returnURL,
			"cancel_url": returnURL,
		},
	}

	var created struct {
		ID    string       `json:"id"`
		Links []paypalLink `json:"links"`
	}
	if err := r.post(ctx, "/v1/payments/payment", payload, &created); err != nil {
		return nil, err
	}

	var approvalURL string
	for _, l := range created.Links {
		if l.Rel == "approval_url" {
			approvalURL = l.Href
			break
		}
	}
	return &InitiateResult{
		ProviderPaymentID: created.ID,
		TransactionID:     created.ID,
		ApprovalURL:       approvalURL,
		RequiresAction:    true,
	}, nil
}

// Execute finalizes an approved payment.
func (r *PayPalRail) Execute(ctx context.Context, providerPaymentID, payerID string) (*ConfirmResult, error) {
	var executed struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	err := r.post(ctx, "/v1/payments/payment/"+providerPaymentID+"/execute",
		map[string]any{"payer_id": payerID}, &executed)
	if err != nil {
		return nil, err
	}
	return &ConfirmResult{TransactionID: executed.ID, Status: executed.State}, nil
}

// Payout pushes funds to the receiver's registered email.
func (r *PayPalRail) Payout(ctx context.Context, amount float64, recipientHandle, loanID string) (*ConfirmResult, error) {
	payload := map[string]any{
		"sender_batch_header": map[string]any{
			"sender_batch_id": fmt.Sprintf("loan_%s_%d", loanID, time.Now().UnixMilli()),
			"email_subject":   "You have a payment from LendPeer",
		},
		"items": []map[string]any{{
			"recipient_type": "EMAIL",
			"amount": map[string]any{
				"value":    fmt.Sprintf("%.2f", amount),
				"currency": "USD",
			},
			"receiver":       recipientHandle,
			"note":           "payment for loan " + loanID,
			"sender_item_id": fmt.Sprintf("payment_%d", time.Now().UnixMilli()),
		}},
	}

	var out struct {
		BatchHeader struct {
			PayoutBatchID string `json:"payout_batch_id"`
			BatchStatus   string `json:"batch_status"`
		} `json:"batch_header"`
	}
	if err := r.post(ctx, "/v1/payments/payouts", payload, &out); err != nil {
		return nil, err
	}
	return &ConfirmResult{
		TransactionID: out.BatchHeader.PayoutBatchID,
		Status:        out.BatchHeader.BatchStatus,
	}, nil
}
