package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Offer is one tariff returned by the offers endpoint.
//
// The record is flat and every numeric field is optional: providers differ
// in what they report, and a missing value is not the same as zero.
type Offer struct {
	ProviderName        string   `json:"providerName"`
	ProductName         string   `json:"productName"`
	DownloadSpeedMbps   *float64 `json:"downloadSpeedMbps"`
	UploadSpeedMbps     *float64 `json:"uploadSpeedMbps,omitempty"`
	MonthlyPriceEur     *float64 `json:"monthlyPriceEur"`
	MonthlyPriceAfter2Y *float64 `json:"monthlyPriceEurAfter2Years,omitempty"`
	ContractTermMonths  *int     `json:"contractTermMonths"`
	ConnectionType      string   `json:"connectionType,omitempty"`
	TV                  string   `json:"tv,omitempty"`
	DataLimitGb         *float64 `json:"dataLimitGb"`
	AgeRestrictionMax   *int     `json:"ageRestrictionMax,omitempty"`
	Discount            *float64 `json:"discount,omitempty"`
	DiscountType        string   `json:"discountType,omitempty"`
	InstallationService *bool    `json:"installationServiceIncluded,omitempty"`
	OneTimeCostEur      *float64 `json:"oneTimeCostEur,omitempty"`
	Benefits            string   `json:"benefits,omitempty"`
	ProviderSpecificID  FlexID   `json:"_provider_specific_id,omitempty"`
}

// ContractTerm returns the contract length as the string used by the
// contract term filter, or "" when unknown.
func (o Offer) ContractTerm() string {
	if o.ContractTermMonths == nil {
		return ""
	}
	return strconv.Itoa(*o.ContractTermMonths)
}

// Key is a stable identifier for rendering lists. Falls back to the
// position when the provider sent no id.
func (o Offer) Key(index int) string {
	if o.ProviderSpecificID != "" {
		return o.ProviderName + ":" + string(o.ProviderSpecificID)
	}
	return "offer-" + strconv.Itoa(index)
}

// FlexID accepts a JSON string or number and keeps it as a string.
// Some providers send numeric product ids, others quoted ones.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// Float and Int are small helpers for building optional fields.
func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func Bool(v bool) *bool        { return &v }
