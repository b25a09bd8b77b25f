package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// UrgentDaysLeft is the threshold under which a forecast is flagged
const UrgentDaysLeft = 5

// Forecast is the body of GET /api/forecast/{sku}/
type Forecast struct {
	Product          string          `json:"product"`
	SKU              string          `json:"sku"`
	Stock            int             `json:"stock"`
	DailyAverage     decimal.Decimal `json:"daily_average"`
	ForecastDaysLeft DaysLeft        `json:"forecast_days_left"`
}

// Urgent reports whether stock runs out in fewer than UrgentDaysLeft days
func (f Forecast) Urgent() bool {
	return f.ForecastDaysLeft.Days != nil && *f.ForecastDaysLeft.Days < UrgentDaysLeft
}

// DaysLeft is either a whole number of days or a label such as "∞ (no usage)"
type DaysLeft struct {
	Days  *int
	Label string
}

func (d *DaysLeft) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = DaysLeft{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DaysLeft{Label: s}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	n := int(f)
	*d = DaysLeft{Days: &n}
	return nil
}

func (d DaysLeft) MarshalJSON() ([]byte, error) {
	if d.Days != nil {
		return []byte(strconv.Itoa(*d.Days)), nil
	}
	return json.Marshal(d.Label)
}

func (d DaysLeft) String() string {
	if d.Days != nil {
		return strconv.Itoa(*d.Days)
	}
	return d.Label
}
