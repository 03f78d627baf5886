package zaptec

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL = "https://api.zaptec.com"
	TokensCacheKey = "zaptec.auth.tokens"

	RoleUser  = 1
	RoleOwner = 2
)

// Client talks to the Zaptec cloud API on behalf of one account. It owns the
// token lifecycle: tokens are obtained with the password grant, cached
// (encrypted) in the TokenCache and refreshed transparently when expired or
// rejected.
type Client struct {
	BaseURL    string
	Username   string
	Password   string
	TokenCache TokenCache
	Encryptor  Encryptor
	Constants  *Constants
	HTTPClient *http.Client
	Time       Clock

	refreshMutex sync.Mutex
}

func NewClient(username, password string) (*Client, error) {
	tokenCache, err := NewMemoryTokenCache()
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		Username:   username,
		Password:   password,
		TokenCache: tokenCache,
		Encryptor:  NullEncryptor{},
		Constants:  GetConstants(),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Time:       RealClock{},
	}, nil
}

type tokenResponse struct {
	AccessToken string  `json:"access_token" validate:"required"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   float64 `json:"expires_in"`
}

// Authorize exchanges the account credentials for a bearer token.
// https://zaptec.com/downloads/ZapChargerPro_Integration.pdf
func (c *Client) Authorize(username, password string) (*Credentials, error) {
	if username == "" || password == "" {
		return nil, ErrParameterMissing
	}

	start := c.Time.UTCNow()

	data := url.Values{}
	data.Set("grant_type", "password")
	data.Set("username", username)
	data.Set("password", password)
	req, err := http.NewRequest("POST", c.BaseURL+"/oauth/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrAuthorizationFailed
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailedError{StatusCode: resp.StatusCode, Body: body}
	}

	var m tokenResponse
	if err := UnmarshalValidateBody(bytes.NewReader(body), &m); err != nil {
		return nil, err
	}

	return NewCredentials(m.AccessToken, tokenExpiry(m.AccessToken, start, m.ExpiresIn)), nil
}

// Chargers lists the chargers the account can use or owns.
// https://api.zaptec.com/help/index.html#/Charger/get_api_chargers
func (c *Client) Chargers() ([]Charger, error) {
	query := url.Values{}
	query.Set("Roles", strconv.Itoa(RoleUser|RoleOwner))

	body, err := c.get("/api/chargers", query)
	if err != nil {
		return nil, err
	}

	var m chargersResponse
	if err := UnmarshalValidateBody(bytes.NewReader(body), &m); err != nil {
		return nil, err
	}
	return m.Data, nil
}

// https://api.zaptec.com/help/index.html#/Installation/get_api_installation__id_
func (c *Client) GetInstallation(installationID string) (*Installation, error) {
	if installationID == "" {
		return nil, ErrParameterMissing
	}

	body, err := c.get("/api/installation/"+installationID, nil)
	if err != nil {
		return nil, err
	}

	var installation Installation
	if err := UnmarshalValidateBody(bytes.NewReader(body), &installation); err != nil {
		return nil, err
	}
	installation.CountryCode = c.Constants.CountryCode(installation.CountryId)
	return &installation, nil
}

// https://api.zaptec.com/help/index.html#/Installation/get_api_installation__id__hierarchy
func (c *Client) GetInstallationHierarchy(installationID string) (*InstallationHierarchy, error) {
	if installationID == "" {
		return nil, ErrParameterMissing
	}

	body, err := c.get("/api/installation/"+installationID+"/hierarchy", nil)
	if err != nil {
		return nil, err
	}

	var hierarchy InstallationHierarchy
	if err := UnmarshalValidateBody(bytes.NewReader(body), &hierarchy); err != nil {
		return nil, err
	}
	if name, err := c.Constants.NetworkTypeName(hierarchy.NetworkType); err == nil {
		hierarchy.NetworkTypeName = name
	}
	return &hierarchy, nil
}

// State fetches the raw observation list of a charger and decodes it for the
// given device type. A 403 response means access to the charger was revoked.
// https://api.zaptec.com/help/index.html#/Charger/get_api_chargers__id__state
func (c *Client) State(chargerID string, deviceType int) (*State, error) {
	if chargerID == "" {
		return nil, ErrParameterMissing
	}

	body, err := c.get("/api/chargers/"+chargerID+"/state", nil)
	if err != nil {
		return nil, err
	}

	var observations []Observation
	if err := UnmarshalBody(bytes.NewReader(body), &observations); err != nil {
		return nil, err
	}
	return NewState(observations, deviceType, c.Constants), nil
}

// SendCommand resolves a symbolic command name and posts it to the charger.
// https://api.zaptec.com/help/index.html#/Charger/post_api_chargers__id__sendCommand__commandId_
func (c *Client) SendCommand(chargerID string, command string) error {
	if chargerID == "" {
		return ErrParameterMissing
	}

	commandID, err := c.Constants.CommandID(command)
	if err != nil {
		return err
	}

	_, err = c.post(fmt.Sprintf("/api/chargers/%s/sendCommand/%d", chargerID, commandID), nil)
	return err
}

func (c *Client) PauseCharging(chargerID string) error {
	return c.SendCommand(chargerID, "StopChargingFinal")
}

func (c *Client) ResumeCharging(chargerID string) error {
	return c.SendCommand(chargerID, "ResumeCharging")
}

// GrantAccessURL builds the portal URL where an installation owner grants a
// third party access to their chargers.
// https://zendesk.zaptec.com/hc/en-001/articles/6062673456657
func (c *Client) GrantAccessURL(lookupKey, partnerName, redirectURL, language string) string {
	if language == "" {
		language = "en"
	}
	query := url.Values{}
	query.Set("partnerName", partnerName)
	query.Set("returnUrl", redirectURL)
	query.Set("lang", language)
	return "https://portal.zaptec.com/#!/access/request/" + lookupKey + "?" + query.Encode()
}

func (c *Client) get(endpoint string, query url.Values) ([]byte, error) {
	return c.request("GET", endpoint, query, nil)
}

func (c *Client) post(endpoint string, body []byte) ([]byte, error) {
	return c.request("POST", endpoint, nil, body)
}

// request performs an authenticated call. An unauthorized response triggers
// one token refresh followed by one retry of the original request; a second
// rejection is surfaced as a request failure. Any other non-2xx status,
// including forbidden, fails without a retry.
func (c *Client) request(method, endpoint string, query url.Values, body []byte) ([]byte, error) {
	tokenRefreshed := false
	for {
		token, err := c.accessToken()
		if err != nil {
			return nil, err
		}

		target := c.BaseURL + endpoint
		if len(query) > 0 {
			target += "?" + query.Encode()
		}
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequest(method, target, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Add("Content-Type", "application/json")
		}
		req.Header.Add("Authorization", "Bearer "+token)

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized && !tokenRefreshed {
			if err := c.forceRefresh(); err != nil {
				return nil, err
			}
			tokenRefreshed = true
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &RequestFailedError{StatusCode: resp.StatusCode, Body: respBody}
		}
		return respBody, nil
	}
}

// accessToken returns a usable bearer token, authorizing or refreshing as
// needed. Serialized so concurrent callers trigger at most one authorization
// request.
func (c *Client) accessToken() (string, error) {
	c.refreshMutex.Lock()
	defer c.refreshMutex.Unlock()

	credentials, err := c.currentCredentials()
	if err != nil {
		return "", err
	}
	if credentials.Expired(c.Time.UTCNow()) {
		credentials, err = c.refreshAccessToken()
		if err != nil {
			return "", err
		}
	}
	return credentials.AccessToken, nil
}

func (c *Client) currentCredentials() (*Credentials, error) {
	cached, err := c.TokenCache.Get(TokensCacheKey)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return c.refreshAccessToken()
	}

	plaintext, err := c.Encryptor.Decrypt(cached)
	if err != nil {
		return nil, err
	}
	return ParseCredentials(plaintext)
}

func (c *Client) forceRefresh() error {
	c.refreshMutex.Lock()
	defer c.refreshMutex.Unlock()
	_, err := c.refreshAccessToken()
	return err
}

// refreshAccessToken authorizes with the configured account and writes the
// new credentials through to the cache. Callers hold refreshMutex.
func (c *Client) refreshAccessToken() (*Credentials, error) {
	credentials, err := c.Authorize(c.Username, c.Password)
	if err != nil {
		return nil, err
	}

	payload, err := credentials.Serialize()
	if err != nil {
		return nil, err
	}
	encrypted, err := c.Encryptor.Encrypt(payload)
	if err != nil {
		return nil, err
	}
	if err := c.TokenCache.Set(TokensCacheKey, encrypted); err != nil {
		return nil, err
	}
	return credentials, nil
}
