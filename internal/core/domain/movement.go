// internal/core/domain/movement.go
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/estoqueapp/estoque/internal/pkg/validator"
)

// MovementType classifies a stock movement.
type MovementType string

// Movement type constants. The values are the store's wire values and must
// not be translated.
const (
	MovementIn      MovementType = "entrada"
	MovementOut     MovementType = "saida"
	MovementDeleted MovementType = "excluido"
)

// Movement is an immutable, timestamped record of a stock quantity change.
// The store assigns ID and Timestamp on creation; a zero ID marks a record
// that never made it to the store. MovementDeleted entries carry the deleted
// product's name in Note in place of a live product reference.
type Movement struct {
	ID        int64        `json:"id"`
	ProductID int64        `json:"product_id"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Note      string       `json:"note,omitempty"`
	Timestamp Timestamp    `json:"timestamp"`
}

// MovementRequest is the payload for creating a single movement.
type MovementRequest struct {
	ProductID int64        `json:"product_id" validate:"required,gt=0"`
	Type      MovementType `json:"type" validate:"required,oneof=entrada saida"`
	Quantity  int          `json:"quantity"`
	Note      string       `json:"note,omitempty"`
}

// Validate checks the request before it is submitted to the store.
func (r *MovementRequest) Validate() error {
	if r.Quantity <= 0 {
		return &NonPositiveQuantityError{Quantity: r.Quantity}
	}
	if errs := validator.ValidateStruct(r); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Timestamp wraps time.Time with tolerant JSON decoding. The store emits
// RFC 3339 timestamps with and without a zone suffix; anything unparseable
// decodes to the zero time rather than failing the whole ledger fetch, and
// sorts after every valid timestamp.
type Timestamp struct {
	time.Time
}

// NewTimestamp builds a Timestamp from a time value.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
