package zaptec

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockClock struct {
	CurTime time.Time
}

func (m *MockClock) UTCNow() time.Time {
	return m.CurTime
}

type EncryptorMock struct {
	mock.Mock
}

func (m *EncryptorMock) Encrypt(plaintext []byte) ([]byte, error) {
	args := m.Called(plaintext)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *EncryptorMock) Decrypt(ciphertext []byte) ([]byte, error) {
	args := m.Called(ciphertext)
	return args.Get(0).([]byte), args.Error(1)
}

func newTestClient(t *testing.T, baseURL string) (*Client, *MockClock) {
	t.Helper()
	client, err := NewClient("zap", "tec")
	if err != nil {
		t.Fatal(err)
	}
	clock := &MockClock{CurTime: time.Now().UTC().Truncate(time.Second)}
	client.BaseURL = baseURL
	client.Time = clock
	return client, clock
}

func seedTokenCache(t *testing.T, client *Client, accessToken string, expiresAt time.Time) {
	t.Helper()
	payload, err := NewCredentials(accessToken, expiresAt).Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if err := client.TokenCache.Set(TokensCacheKey, payload); err != nil {
		t.Fatal(err)
	}
}

func cachedCredentials(t *testing.T, client *Client) *Credentials {
	t.Helper()
	cached, err := client.TokenCache.Get(TokensCacheKey)
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil {
		return nil
	}
	credentials, err := ParseCredentials(cached)
	if err != nil {
		t.Fatal(err)
	}
	return credentials
}

// tokenEndpoint stubs the password grant, counting how often it is hit.
func tokenEndpoint(accessToken string, expiresIn int, calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostFormValue("grant_type") != "password" ||
			r.PostFormValue("username") == "" ||
			r.PostFormValue("password") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*calls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": %q, "token_type": "Bearer", "expires_in": %d}`, accessToken, expiresIn)
	}
}

func sendJSON(w http.ResponseWriter, v interface{}) {
	body, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

const signedMeterValueExample = `OCMF|{"FV":"1.0","GI":"ZAPTEC GO","GS":"ZAP049387","GV":"1.1.0.5","PG":"F1",` +
	`"RD":[{"TM":"2022-09-28T14:00:00,000+00:00 R","RV":24.368,"RI":"1-0:1.8.0","RU":"kWh","RT":"AC","ST":"G"}]}`

// Trimmed from a real Apollo state dump; 99999 is deliberately not in the
// schema.
func chargerStateExample() []Observation {
	return []Observation{
		{ChargerId: "de522271", StateId: -3, Timestamp: "2022-12-05T13:10:10.837", ValueAsString: "1"},
		{ChargerId: "de522271", StateId: -1, Timestamp: "2022-12-05T15:29:21.713"},
		{ChargerId: "de522271", StateId: 150, Timestamp: "2022-09-16T12:40:34.537", ValueAsString: "LTE"},
		{ChargerId: "de522271", StateId: 513, Timestamp: "2022-09-28T13:42:37.577", ValueAsString: "2.83012"},
		{ChargerId: "de522271", StateId: 520, Timestamp: "2022-09-16T08:00:57.967", ValueAsString: "3"},
		{ChargerId: "de522271", StateId: 553, Timestamp: "2022-10-07T18:53:10.193", ValueAsString: "1.42012"},
		{ChargerId: "de522271", StateId: 554, Timestamp: "2022-09-28T14:00:01.31", ValueAsString: signedMeterValueExample},
		{ChargerId: "de522271", StateId: 710, Timestamp: "2022-10-05T08:28:17.433", ValueAsString: "1"},
		{ChargerId: "de522271", StateId: 760, Timestamp: "2022-09-16T08:11:42.957", ValueAsString: "NLD"},
		{ChargerId: "de522271", StateId: 99999, Timestamp: "2022-12-05T13:10:10.837", ValueAsString: "1"},
	}
}

func chargersExample() map[string]interface{} {
	return map[string]interface{}{
		"Pages": 1,
		"Data": []map[string]interface{}{
			{
				"OperatingMode":    1,
				"IsOnline":         true,
				"Id":               "de522271-91f5-45b8-916b-07e258ff07d2",
				"MID":              "ZAP049387",
				"DeviceId":         "ZAP049387",
				"SerialNo":         "Zaptec",
				"Name":             "Zaptec",
				"DeviceType":       4,
				"InstallationName": "Antonio Morohof 1",
				"InstallationId":   "b30adfd3-3442-432e-88ea-8782b7e69b2f",
				"Active":           true,
			},
		},
	}
}
