package internal

import "time"

// Delivery states for locally originated chat messages. Messages loaded
// from the server are always delivered.
const (
	DeliveryDelivered = ""
	DeliveryPending   = "pending"
	DeliveryFailed    = "failed"
)

// Message is a single chat message within a session.
type Message struct {
	Role    string `json:"role" yaml:"role"` // "user" or "assistant"
	Content string `json:"content" yaml:"content"`
	TS      string `json:"ts,omitempty" yaml:"ts,omitempty"` // RFC3339

	// LocalID and Delivery track optimistic sends. They are assigned
	// client-side and never sent to the server.
	LocalID  string `json:"local_id,omitempty" yaml:"local_id,omitempty"`
	Delivery string `json:"delivery,omitempty" yaml:"delivery,omitempty"`
}

// Session is one conversation thread with the assistant, distinct from
// an authentication/device session.
type Session struct {
	SessionID string    `json:"session_id" yaml:"session_id"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Messages  []Message `json:"messages" yaml:"messages"`
}

// HasPending reports whether any message in the session is an
// unconfirmed optimistic send.
func (s *Session) HasPending() bool {
	for _, m := range s.Messages {
		if m.Delivery == DeliveryPending {
			return true
		}
	}
	return false
}

// ChatReply is the server's response to a chat send.
type ChatReply struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// User identifies the logged-in account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// EmergencyContact is one entry in a profile's contact list.
type EmergencyContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the editable account profile.
type Profile struct {
	FullName          string             `json:"full_name"`
	ProfilePicURL     string             `json:"profile_pic_url,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty"`
	Username          string             `json:"username,omitempty"`
	Email             string             `json:"email,omitempty"`
}

// DeviceSession is an authentication session on some device, as listed
// by /my-sessions and /dashboard.
type DeviceSession struct {
	SessionID string `json:"session_id"`
	Device    string `json:"device,omitempty"`
	IP        string `json:"ip,omitempty"`
	IsActive  bool   `json:"is_active"`
	LastSeen  string `json:"last_seen,omitempty"`
	IsCurrent bool   `json:"is_current,omitempty"`
}

// ActivityLog is one audit entry on the dashboard.
type ActivityLog struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
}

// DashboardData is the payload of GET /dashboard.
type DashboardData struct {
	User         User            `json:"user"`
	Sessions     []DeviceSession `json:"sessions"`
	ActivityLogs []ActivityLog   `json:"activity_logs"`
}

// DeviceInfo holds hardware/OS facts reported by the mobile agent.
type DeviceInfo struct {
	Model      string `json:"model,omitempty"`
	OSVersion  string `json:"os_version,omitempty"`
	Battery    string `json:"battery,omitempty"`
	Storage    string `json:"storage,omitempty"`
	LastSynced string `json:"last_synced,omitempty"`
}

// AppEntry is one installed application with its permission grants.
type AppEntry struct {
	Name        string   `json:"name"`
	Package     string   `json:"package,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// MalwareVerdict is the scan result for one scanned item.
type MalwareVerdict struct {
	Malicious bool   `json:"malicious"`
	Detail    string `json:"detail,omitempty"`
}

// DeviceReport is the payload of GET /mobile/get_data. Each page mirrors
// one tab of the mobile agent's report.
type DeviceReport struct {
	DeviceInfoPage struct {
		Data struct {
			DeviceInfo DeviceInfo `json:"device_info"`
		} `json:"data"`
	} `json:"device_info_page"`
	AppsPage struct {
		Data []AppEntry `json:"data"`
	} `json:"apps_page"`
	MalwareScanPage struct {
		Data map[string]MalwareVerdict `json:"data"`
	} `json:"malware_scan_page"`
}

// MaliciousCount counts items the scan flagged as malicious.
func (r *DeviceReport) MaliciousCount() int {
	n := 0
	for _, v := range r.MalwareScanPage.Data {
		if v.Malicious {
			n++
		}
	}
	return n
}

// GuideSection is one scenario of a recovery guide.
type GuideSection struct {
	EstimatedTimeMinutes int      `json:"estimated_time_minutes,omitempty"`
	OfficialLink         string   `json:"official_link,omitempty"`
	Steps                []string `json:"steps,omitempty"`
	Troubleshooting      []string `json:"troubleshooting,omitempty"`
}

// RecoveryGuide is the structured body of a recovery result.
type RecoveryGuide struct {
	Warnings                []string                `json:"warnings,omitempty"`
	Guide                   map[string]GuideSection `json:"guide,omitempty"`
	SupportContacts         []string                `json:"support_contacts,omitempty"`
	AlternativeVerification []string                `json:"alternative_verification,omitempty"`
}

// RecoveryResult is the payload of POST /recovery/initiate.
type RecoveryResult struct {
	Title      string        `json:"title"`
	RecoveryID string        `json:"recovery_id"`
	FromCache  bool          `json:"from_cache"`
	JSONData   RecoveryGuide `json:"json_data"`
}
