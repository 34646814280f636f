package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CalculateRequest is the raw form input. ManualDiscountPercent is kept as
// text and parsed leniently.
type CalculateRequest struct {
	CustomerName          string `json:"customerName"`
	VehicleNumber         string `json:"vehicleNumber"`
	SelectedService       string `json:"selectedService"`
	AdditionalServices    string `json:"additionalServices"`
	IsRegularCustomer     bool   `json:"isRegularCustomer"`
	DiscountCode          string `json:"discountCode"`
	ManualDiscountPercent string `json:"manualDiscountPercent"`
}

// UnmarshalJSON accepts manualDiscountPercent as a string, a number or null.
func (r *CalculateRequest) UnmarshalJSON(data []byte) error {
	type plain CalculateRequest
	aux := struct {
		*plain
		ManualDiscountPercent json.RawMessage `json:"manualDiscountPercent"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	pct, err := percentText(aux.ManualDiscountPercent)
	if err != nil {
		return err
	}
	r.ManualDiscountPercent = pct
	return nil
}

func percentText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", fmt.Errorf("manualDiscountPercent: %w", err)
	}
	return n.String(), nil
}
