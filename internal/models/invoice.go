package models

import (
	"fmt"
	"strings"
)

type InvoiceReceiver struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	PlaceOfSupply *string `json:"placeOfSupply"`
	TransportMode *string `json:"transportMode"`
	State         *string `json:"state"`
	StateCode     *string `json:"stateCode"`
	GSTIN         *string `json:"gstIn"`
}

type InvoiceConsignee struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	PlaceOfSupply *string `json:"placeOfSupply"`
	TransportMode *string `json:"transportMode"`
	State         *string `json:"state"`
	Code          *string `json:"code"`
}

// InvoiceItem is one line of the goods table. Any "amount" sent by the
// caller is ignored; Amount always derives from quantity and rate.
type InvoiceItem struct {
	SerialNo    int     `json:"serialNo"`
	Description string  `json:"description"`
	HSNCode     *string `json:"hsnCode"`
	Quantity    int     `json:"quantity"`
	Rate        float64 `json:"rate"`
}

func (i InvoiceItem) Amount() float64 {
	return float64(i.Quantity) * i.Rate
}

type InvoiceTax struct {
	CGSTPercent float64 `json:"cgstPercent"`
	SGSTPercent float64 `json:"sgstPercent"`
	IGSTPercent float64 `json:"igstPercent"`
}

type InvoiceTotalSummary struct {
	TotalBeforeTax float64 `json:"totalBeforeTax"`
	CGSTAmount     float64 `json:"cgstAmount"`
	SGSTAmount     float64 `json:"sgstAmount"`
	IGSTAmount     float64 `json:"igstAmount"`
	FreightCharge  float64 `json:"freightCharge"`
	TotalAfterTax  float64 `json:"totalAfterTax"`
}

type InvoiceRequest struct {
	InvoiceNo     string               `json:"invoiceNo,omitempty"`
	InvoiceDate   string               `json:"invoiceDate"`
	Receiver      *InvoiceReceiver     `json:"receiver"`
	Consignee     *InvoiceConsignee    `json:"consignee"`
	Items         []InvoiceItem        `json:"items"`
	Tax           *InvoiceTax          `json:"tax"`
	FreightCharge float64              `json:"freightCharge"`
	AmountInWords *string              `json:"amountInWords"`
	TotalSummary  *InvoiceTotalSummary `json:"totalSummary"`
}

// Validate reports every missing required field in one error.
func (r *InvoiceRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.InvoiceDate) == "" {
		missing = append(missing, "invoiceDate")
	}
	if r.Receiver == nil {
		missing = append(missing, "receiver")
	}
	if r.Consignee == nil {
		missing = append(missing, "consignee")
	}
	if r.Items == nil {
		missing = append(missing, "items")
	}
	if r.Tax == nil {
		missing = append(missing, "tax")
	}
	if r.TotalSummary == nil {
		missing = append(missing, "totalSummary")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}
