package enum

import (
	"encoding/json"
	"strings"
)

// CostMode selects whether the lump transport allocation is part of landed cost.
type CostMode int

const (
	CostModeDetailed CostMode = 0
	CostModeSimple   CostMode = 1
)

func (m CostMode) String() string {
	return [...]string{"detailed", "simple"}[m]
}

// ParseCostMode falls back to CostModeDetailed for unknown input.
func ParseCostMode(str string) CostMode {
	if strings.EqualFold(strings.TrimSpace(str), "simple") {
		return CostModeSimple
	}
	return CostModeDetailed
}

func (m CostMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *CostMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = CostModeDetailed
		if CostMode(i) == CostModeSimple {
			*m = CostModeSimple
		}
		return nil
	}
	*m = ParseCostMode(str)
	return nil
}
