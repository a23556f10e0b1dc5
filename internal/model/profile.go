package model

import (
	"time"
)

// PaymentStatus enumerates the certification fee payment states.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// Profile holds a candidate's certification state. The attempt flow only
// owns the test/certificate fields; payment fields are updated by the
// payment confirmation endpoint and must never be clobbered by finalize.
type Profile struct {
	CandidateID       int           `json:"candidate_id"`
	MembershipFeePaid bool          `json:"membership_fee_paid"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	TestCompleted     bool          `json:"test_completed"`
	TestScore         *int          `json:"test_score,omitempty"`
	CertificateIssued bool          `json:"certificate_issued"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// MayStartTest reports whether the payment gate has been satisfied.
func (p *Profile) MayStartTest() bool {
	return p.MembershipFeePaid || p.PaymentStatus == PaymentStatusPaid
}

// RecordPaymentRequest is the admin payload confirming a candidate's payment.
type RecordPaymentRequest struct {
	PaymentStatus     string `json:"payment_status" binding:"required,oneof=UNPAID PENDING PAID"`
	MembershipFeePaid *bool  `json:"membership_fee_paid" binding:"omitempty"`
}
