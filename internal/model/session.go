package model

import "time"

// DeviceSession binds an access code to the single device currently allowed
// to use it. At most one session exists per code; the record expires in the
// store seven days after the last upsert.
type DeviceSession struct {
	Code      string    `json:"code"`
	DeviceID  string    `json:"deviceId"`
	CreatedAt time.Time `json:"createdAt"`
}
