package domain

import (
	"github.com/yungbote/carbonmatch-backend/internal/domain/auth"
	"github.com/yungbote/carbonmatch-backend/internal/domain/deliverynote"
	"github.com/yungbote/carbonmatch-backend/internal/domain/reference"
)

type ErrorCode = deliverynote.ErrorCode

const (
	ErrorNone                 = deliverynote.ErrorNone
	ErrorExternalService      = deliverynote.ErrorExternalService
	ErrorInvalidQuantity      = deliverynote.ErrorInvalidQuantity
	ErrorMissingScalingFactor = deliverynote.ErrorMissingScalingFactor
)

type LineItem = deliverynote.LineItem
type InvoiceData = deliverynote.InvoiceData
type ProductMapping = deliverynote.ProductMapping
type ChangeLog = deliverynote.ChangeLog

type Credential = auth.Credential

const (
	CredentialLabelFetched   = auth.CredentialLabelFetched
	CredentialLabelRefreshed = auth.CredentialLabelRefreshed
)

type Building = reference.Building
type Phase = reference.Phase
type UnitOfMeasure = reference.UnitOfMeasure
type DirectoryUser = reference.DirectoryUser

// All returns every model owned by this service, in migration order.
func All() []interface{} {
	return []interface{}{
		&Building{},
		&Phase{},
		&UnitOfMeasure{},
		&DirectoryUser{},
		&Credential{},
		&LineItem{},
		&InvoiceData{},
		&ProductMapping{},
		&ChangeLog{},
	}
}
