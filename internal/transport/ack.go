package transport

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// The API signals "no matching data" with an Acknowledgement document and
// reason code 999 instead of an empty body. That payload arrives with a
// 400 status, so it has to be told apart from genuinely bad requests by
// content.
const noDataReasonCode = "999"

type acknowledgement struct {
	XMLName xml.Name
	Reasons []struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}

// noDataAcknowledgement reports whether body is an acknowledgement
// document whose reason means "no data", returning the reason text.
func noDataAcknowledgement(body []byte) (string, bool) {
	if !bytes.Contains(body, []byte("Acknowledgement_MarketDocument")) {
		return "", false
	}
	var ack acknowledgement
	if err := xml.Unmarshal(body, &ack); err != nil {
		return "", false
	}
	if ack.XMLName.Local != "Acknowledgement_MarketDocument" {
		return "", false
	}
	for _, r := range ack.Reasons {
		if r.Code == noDataReasonCode || strings.Contains(strings.ToLower(r.Text), "no matching data") {
			return strings.TrimSpace(r.Text), true
		}
	}
	return "", false
}
