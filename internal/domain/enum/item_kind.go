package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ItemKind distinguishes area-based tiles from count-based misc items.
type ItemKind string

const (
	ItemKindTile ItemKind = "TILE"
	ItemKindMisc ItemKind = "MISC"
)

func (k ItemKind) String() string {
	return string(k)
}

// IsAreaBased reports whether the kind is priced per area as well as per unit.
func (k ItemKind) IsAreaBased() bool {
	return k == ItemKindTile
}

// CostPrecision is the number of decimals stored costs are rounded to.
func (k ItemKind) CostPrecision() int32 {
	if k == ItemKindMisc {
		return 4
	}
	return 2
}

func (k ItemKind) IsValid() bool {
	return k == ItemKindTile || k == ItemKindMisc
}

func ParseItemKind(str string) (ItemKind, error) {
	k := ItemKind(strings.ToUpper(strings.TrimSpace(str)))
	if !k.IsValid() {
		return "", fmt.Errorf("invalid item kind %q", str)
	}
	return k, nil
}

func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(k))
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseItemKind(str)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k ItemKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *ItemKind) Scan(value interface{}) error {
	if value == nil {
		*k = ItemKindTile
		return nil
	}
	switch v := value.(type) {
	case string:
		*k = ItemKind(v)
	case []byte:
		*k = ItemKind(string(v))
	}
	return nil
}
