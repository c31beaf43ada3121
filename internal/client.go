package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Client talks to the RakshaNetra platform API. One method per server
// operation; every method issues exactly one request and normalizes its
// failure into an APIError or RequestError.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenStore
}

// NewClient builds a client against the configured origin.
func NewClient(cfg *Config, tokens *TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		tokens:  tokens,
	}
}

// envelope is the server's standard response wrapper. Data is left raw
// so each operation can decode its own payload; Detail carries
// field-level validation errors.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Detail  []struct {
		Msg string `json:"msg"`
	} `json:"detail"`
}

// errorMessage applies the extraction precedence: first validation
// detail, then the server message field, then the operation fallback.
func (env *envelope) errorMessage(fallback string) string {
	if len(env.Detail) > 0 && env.Detail[0].Msg != "" {
		return env.Detail[0].Msg
	}
	if env.Message != "" {
		return env.Message
	}
	return fallback
}

// do issues one request. When auth is set the stored access token is
// attached as a bearer credential. The decoded data payload (or the
// whole body when no envelope is present) lands in out when non-nil.
func (c *Client) do(op, method, path string, body io.Reader, contentType string, auth bool, fallback string, out interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.tokens.AccessToken())
	}

	LogDebug("%s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, Status: resp.StatusCode, Message: env.errorMessage(fallback)}
	}

	if out == nil {
		return nil
	}

	// Unwrap one {data: ...} envelope if present.
	payload := raw
	if len(env.Data) > 0 && string(env.Data) != "null" {
		payload = env.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (c *Client) postJSON(op, path string, body interface{}, auth bool, fallback string, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	return c.do(op, http.MethodPost, path, bytes.NewReader(data), "application/json", auth, fallback, out)
}

func (c *Client) getJSON(op, path string, fallback string, out interface{}) error {
	return c.do(op, http.MethodGet, path, nil, "", true, fallback, out)
}

// loginPayload is the /login response; tokens ride alongside the user.
type loginPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Login authenticates and persists both tokens on success.
func (c *Client) Login(username, password string) (*User, error) {
	var payload loginPayload
	err := c.postJSON("login", "/login", map[string]string{
		"username": username,
		"password": password,
	}, false, "Login failed", &payload)
	if err != nil {
		return nil, err
	}
	if payload.AccessToken != "" {
		if err := c.tokens.Save(AuthTokens{
			AccessToken:  payload.AccessToken,
			RefreshToken: payload.RefreshToken,
		}); err != nil {
			return nil, err
		}
	}
	return &payload.User, nil
}

// ForgotPassword requests a reset OTP for the given email.
func (c *Client) ForgotPassword(email string) error {
	return c.postJSON("forgot-password", "/forgot-password",
		map[string]string{"email": email}, false, "Request failed", nil)
}

// ResendOTP re-sends the reset OTP.
func (c *Client) ResendOTP(email string) error {
	return c.postJSON("resend-otp", "/resend-otp",
		map[string]string{"email": email}, false, "Failed to resend OTP", nil)
}

// ResetPassword completes the OTP reset flow.
func (c *Client) ResetPassword(email, otp, newPassword string) error {
	return c.postJSON("reset-password", "/reset-password", map[string]string{
		"email":        email,
		"otp":          otp,
		"new_password": newPassword,
	}, false, "Reset password failed", nil)
}

// ChangePassword changes the password of the logged-in account.
func (c *Client) ChangePassword(current, newPassword string) error {
	return c.postJSON("change-password", "/change-password", map[string]string{
		"current_password": current,
		"new_password":     newPassword,
	}, true, "Change password failed", nil)
}

// FetchDashboard loads the dashboard payload.
func (c *Client) FetchDashboard() (*DashboardData, error) {
	var data DashboardData
	if err := c.getJSON("dashboard", "/dashboard", "Failed to load dashboard", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DeviceReport loads the mobile agent's device/app/malware report.
func (c *Client) DeviceReport() (*DeviceReport, error) {
	var report DeviceReport
	if err := c.getJSON("device", "/mobile/get_data", "Failed to load device report", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Profile loads the account profile.
func (c *Client) Profile() (*Profile, error) {
	var profile Profile
	if err := c.getJSON("profile", "/profile", "Failed to load profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches the account profile.
func (c *Client) UpdateProfile(patch *Profile) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return &RequestError{Op: "update-profile", Err: err}
	}
	return c.do("update-profile", http.MethodPatch, "/profile",
		bytes.NewReader(data), "application/json", true, "Failed to update profile", nil)
}

// DeviceSessions lists authentication sessions across devices.
func (c *Client) DeviceSessions() ([]DeviceSession, error) {
	var sessions []DeviceSession
	if err := c.getJSON("sessions", "/my-sessions", "Failed to load sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// LogoutDevice revokes one device session by id.
func (c *Client) LogoutDevice(sessionID string) error {
	return c.postJSON("logout-device", "/logout-device",
		map[string]string{"session_id": sessionID}, true, "Failed to logout device", nil)
}

// LogoutAll revokes every device session.
func (c *Client) LogoutAll() error {
	return c.postJSON("logout-all", "/logout-all",
		map[string]string{}, true, "Failed to logout all devices", nil)
}

// InitiateRecovery requests a recovery guide for a platform. Platform
// and language travel as query parameters.
func (c *Client) InitiateRecovery(platform, lang string) (*RecoveryResult, error) {
	path := fmt.Sprintf("/recovery/initiate?platform=%s&lang=%s",
		url.QueryEscape(platform), url.QueryEscape(lang))
	var result RecoveryResult
	err := c.do("recovery", http.MethodPost, path,
		strings.NewReader("{}"), "application/json", true, "Failed to initiate recovery", &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SendChat posts a message with optional file attachments as multipart
// form data and returns the assistant reply.
func (c *Client) SendChat(message string, files []string) (*ChatReply, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("message", message); err != nil {
		return nil, &RequestError{Op: "chat", Err: err}
	}
	for _, path := range files {
		if err := attachFile(mw, path); err != nil {
			return nil, &RequestError{Op: "chat", Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &RequestError{Op: "chat", Err: err}
	}

	var reply ChatReply
	err := c.do("chat", http.MethodPost, "/rakshamitra/chat",
		&buf, mw.FormDataContentType(), true, "Failed to send message", &reply)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func attachFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// historyPayload wraps the session list of /rakshamitra/history.
type historyPayload struct {
	Items []Session `json:"items"`
}

// ChatHistory fetches up to limit sessions starting at offset.
func (c *Client) ChatHistory(limit, offset int) ([]Session, error) {
	var payload historyPayload
	err := c.postJSON("history", "/rakshamitra/history", map[string]int{
		"limit":  limit,
		"offset": offset,
	}, true, "Failed to fetch chat history", &payload)
	if err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// EndChatSession clears the active conversation context server-side.
func (c *Client) EndChatSession() error {
	return c.postJSON("end-session", "/rakshamitra/end_session",
		map[string]string{}, true, "Failed to end session", nil)
}
