package provisioner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopfront/provisioner/api"
)

// Client calls a remote provisioning server.
type Client struct {
	// ServerAddr is the base URL of the provisioning server.
	ServerAddr string
}

// Provision submits a provisioning request and returns the owner login
// URL. A duplicate address is returned as *api.DuplicateSiteError so
// callers can treat retries as success.
func (c *Client) Provision(req api.ProvisionRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("could not encode provisioning request: %w", err)
	}

	url := strings.TrimSuffix(c.ServerAddr, "/") + "/api/provision"
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("could not request provisioning endpoint: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		loginURL, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("could not read provisioning response: %w", err)
		}
		return string(loginURL), nil

	case http.StatusConflict:
		var dup api.DuplicateSiteResponse
		if err := json.NewDecoder(resp.Body).Decode(&dup); err != nil {
			return "", fmt.Errorf("could not parse duplicate-site response: %w", err)
		}
		return "", &api.DuplicateSiteError{Address: duplicateAddress(dup.Message)}

	default:
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("provisioning endpoint returned %d", resp.StatusCode)
		}
		return "", fmt.Errorf("provisioning endpoint returned %d: %s", resp.StatusCode, string(bodyBytes))
	}
}

// duplicateAddress recovers the address from the duplicate-site
// message, tolerating servers that phrase it differently.
func duplicateAddress(message string) string {
	fields := strings.Fields(message)
	if len(fields) >= 2 && fields[0] == "Site" {
		return fields[1]
	}
	return message
}
