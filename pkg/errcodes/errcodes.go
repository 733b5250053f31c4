package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Marketplace upstream.
	UpstreamUnavailable failure.ErrorCode = "UpstreamUnavailable"
	AuthFailed          failure.ErrorCode = "AuthFailed"

	// Auction house domain.
	ItemNotFound    failure.ErrorCode = "ItemNotFound"
	RealmNotFound   failure.ErrorCode = "RealmNotFound"
	InvalidItemID   failure.ErrorCode = "InvalidItemID"
	InvalidRealmID  failure.ErrorCode = "InvalidRealmID"
	NoPriceData     failure.ErrorCode = "NoPriceData"
	ScanNotAccepted failure.ErrorCode = "ScanNotAccepted"
)
