package models

type UserRole string

const (
	UserRoleAdmin UserRole = "A"
	UserRoleStaff UserRole = "S"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPartial PaymentStatus = "Partial"
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
)

type FilingStatus string

const (
	FilingStatusPending FilingStatus = "Pending"
	FilingStatusFiled   FilingStatus = "Filed"
)

type AdjustmentReason string

const (
	AdjustmentReasonRecount    AdjustmentReason = "Recount"
	AdjustmentReasonDamage     AdjustmentReason = "Damage"
	AdjustmentReasonLoss       AdjustmentReason = "Loss"
	AdjustmentReasonCorrection AdjustmentReason = "Correction"
	AdjustmentReasonOther      AdjustmentReason = "Other"
)
