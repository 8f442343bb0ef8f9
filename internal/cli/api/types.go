package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// ShipmentStatus is the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "pending"
	StatusInTransit ShipmentStatus = "in_transit"
	StatusDelivered ShipmentStatus = "delivered"
	StatusCancelled ShipmentStatus = "cancelled"
)

// ShipmentStatuses lists the statuses accepted by the create form.
var ShipmentStatuses = []ShipmentStatus{StatusInTransit, StatusDelivered, StatusPending, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s ShipmentStatus) Valid() bool {
	for _, known := range ShipmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// SignupRequest is the signup form.
type SignupRequest struct {
	FullName       string
	Email          string
	Password       string
	RecaptchaToken string
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email          string
	Password       string
	RecaptchaToken string
}

// SignupResponse is returned by a successful signup.
type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginResponse carries the bearer token issued by the API.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Route is a shipment's path.
type Route struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Waypoints   []string `json:"waypoints,omitempty"`
}

// Shipment is a shipment record as listed by the API.
type Shipment struct {
	ID             string         `json:"_id"`
	ShipmentNumber string         `json:"shipment_number"`
	DeviceID       FlexString     `json:"device_id"`
	Route          Route          `json:"route"`
	Status         ShipmentStatus `json:"status"`
	CreatedAt      Timestamp      `json:"created_at"`
	CreatedBy      string         `json:"created_by"`
	PONumber       string         `json:"po_number,omitempty"`
	GoodsType      string         `json:"goods_type,omitempty"`
	Description    string         `json:"description,omitempty"`
}

// CreateShipmentRequest is the body of a create call.
type CreateShipmentRequest struct {
	ShipmentNumber       string         `json:"shipment_number"`
	DeviceID             string         `json:"device_id"`
	Route                Route          `json:"route"`
	PONumber             string         `json:"po_number"`
	NDCNumber            string         `json:"ndc_number"`
	SerialNumbers        []string       `json:"serial_numbers"`
	ContainerNumber      string         `json:"container_number"`
	GoodsType            string         `json:"goods_type"`
	ExpectedDeliveryDate string         `json:"expected_delivery_date"`
	DeliveryNumber       string         `json:"delivery_number"`
	BatchID              string         `json:"batch_id"`
	Description          string         `json:"description"`
	Status               ShipmentStatus `json:"status"`
}

// CreateShipmentResponse is returned by a successful create.
type CreateShipmentResponse struct {
	Message    string `json:"message"`
	ShipmentID string `json:"shipment_id"`
}

// DeviceReading is one telemetry sample.
type DeviceReading struct {
	ID                     string     `json:"_id"`
	DeviceID               FlexString `json:"Device_ID"`
	BatteryLevel           float64    `json:"Battery_Level"`
	FirstSensorTemperature float64    `json:"First_Sensor_temperature"`
	RouteFrom              string     `json:"Route_From"`
	RouteTo                string     `json:"Route_To"`
	Timestamp              Timestamp  `json:"timestamp"`
}

// IsZero reports whether r is the empty object the API returns when no
// reading exists yet.
func (r DeviceReading) IsZero() bool {
	return r.ID == "" && r.DeviceID == "" && r.Timestamp.IsZero()
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}

// FlexString decodes from either a JSON string or a JSON number. Device
// IDs are numeric in telemetry but strings in shipments.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// timestampLayouts covers RFC 3339 and the naive ISO forms Python emits.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp decodes the API's timestamps. Values without a zone are UTC.
// Unparsable values are kept in Raw rather than failing the response.
type Timestamp struct {
	time.Time
	Raw string
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var secs float64
		if err := json.Unmarshal(data, &secs); err != nil {
			return err
		}
		*t = Timestamp{Time: time.UnixMilli(int64(secs * 1000)).UTC(), Raw: strconv.FormatFloat(secs, 'f', -1, 64)}
		return nil
	}

	*t = Timestamp{Raw: s}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			break
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		if t.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// String formats the timestamp for tables: local time, minutes precision.
func (t Timestamp) String() string {
	if t.Time.IsZero() {
		if t.Raw == "" {
			return "-"
		}
		return t.Raw
	}
	return t.Time.Local().Format("2006-01-02 15:04")
}
