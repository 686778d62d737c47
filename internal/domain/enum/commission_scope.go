package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// CommissionScope is the entity level a commission rate applies to.
type CommissionScope string

const (
	CommissionScopeInvoice   CommissionScope = "INVOICE"
	CommissionScopeQuotation CommissionScope = "QUOTATION"
	CommissionScopeUser      CommissionScope = "USER"
	CommissionScopeGlobal    CommissionScope = "GLOBAL"
)

// CommissionScopePrecedence lists scopes from most to least specific.
var CommissionScopePrecedence = []CommissionScope{
	CommissionScopeInvoice,
	CommissionScopeQuotation,
	CommissionScopeUser,
	CommissionScopeGlobal,
}

func (s CommissionScope) String() string {
	return string(s)
}

func (s CommissionScope) IsValid() bool {
	switch s {
	case CommissionScopeInvoice, CommissionScopeQuotation, CommissionScopeUser, CommissionScopeGlobal:
		return true
	}
	return false
}

// RequiresScopeID reports whether rates of this scope must name a target row.
func (s CommissionScope) RequiresScopeID() bool {
	return s == CommissionScopeInvoice || s == CommissionScopeQuotation || s == CommissionScopeUser
}

func (s CommissionScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *CommissionScope) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed := CommissionScope(strings.ToUpper(str))
	if !parsed.IsValid() {
		return fmt.Errorf("invalid commission scope %q", str)
	}
	*s = parsed
	return nil
}

func (s CommissionScope) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *CommissionScope) Scan(value interface{}) error {
	if value == nil {
		*s = CommissionScopeGlobal
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = CommissionScope(v)
	case []byte:
		*s = CommissionScope(string(v))
	}
	return nil
}
