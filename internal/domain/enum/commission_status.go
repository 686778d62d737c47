package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// CommissionStatus is the lifecycle state of a ledger entry.
type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "PENDING"
	CommissionStatusApproved CommissionStatus = "APPROVED"
	CommissionStatusPaid     CommissionStatus = "PAID"
)

func (s CommissionStatus) String() string {
	return string(s)
}

func (s CommissionStatus) IsValid() bool {
	switch s {
	case CommissionStatusPending, CommissionStatusApproved, CommissionStatusPaid:
		return true
	}
	return false
}

func ParseCommissionStatus(str string) (CommissionStatus, error) {
	s := CommissionStatus(strings.ToUpper(strings.TrimSpace(str)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid commission status %q", str)
	}
	return s, nil
}

func (s CommissionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *CommissionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseCommissionStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s CommissionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *CommissionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CommissionStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = CommissionStatus(v)
	case []byte:
		*s = CommissionStatus(string(v))
	}
	return nil
}
