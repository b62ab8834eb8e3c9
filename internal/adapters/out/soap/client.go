package soap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// Client performs one named remote operation per call against a vendor
// gateway endpoint. Both supported vendors expose their SOAP services
// through a JSON bridge: the operation name travels in the SOAPAction
// header, the document in the POST body. The client never retries; a
// timeout is a failure like any other.
type Client struct {
	http     *http.Client
	endpoint string
	audit    bool
	logger   out.LoggerPort
}

// NewFactory returns the client factory registered with the connection
// manager for both templates. Timeout and audit flag come from the
// resolved configuration of the (tenant, template) pair.
func NewFactory(logger out.LoggerPort) out.ClientFactory {
	return func(cfg domain.EffectiveConfig) (out.ProtocolClient, error) {
		endpoint := cfg.Endpoint()
		if endpoint == "" {
			return nil, fmt.Errorf("soap.client: empty endpoint for template %q", cfg.TemplateSlug)
		}

		return &Client{
			http:     &http.Client{Timeout: cfg.Timeout()},
			endpoint: endpoint,
			audit:    cfg.GetBool(domain.ConfigKeyAuditWire),
			logger:   logger.WithModule("SoapClient"),
		}, nil
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Invoke(ctx context.Context, operation string, params interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("soap.invoke.encode_failed %s: %v: %w", operation, err, domain.ErrRemoteInvocation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("soap.invoke.request_failed %s: %v: %w", operation, err, domain.ErrRemoteInvocation)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("SOAPAction", operation)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("soap.invoke.transport_failed", out.LogFields{
			"operation": operation,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("soap.invoke.transport_failed %s: %v: %w", operation, err, domain.ErrRemoteInvocation)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("soap.invoke.read_failed %s: %v: %w", operation, err, domain.ErrRemoteInvocation)
	}

	if c.audit {
		c.logger.Debug("soap.invoke.audit", out.LogFields{
			"operation": operation,
			"request":   string(body),
			"response":  string(payload),
		})
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("soap.invoke.unexpected_status", out.LogFields{
			"operation": operation,
			"status":    resp.StatusCode,
		})
		return nil, fmt.Errorf("soap.invoke %s: unexpected status code %d: %w", operation, resp.StatusCode, domain.ErrRemoteInvocation)
	}

	return json.RawMessage(payload), nil
}
