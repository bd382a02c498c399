package enum

// CustomerType classifies a customer record. Employees are detected from the
// company email domain, everyone else is a client.
type CustomerType string

const (
	CustomerTypeClient   CustomerType = "client"
	CustomerTypeEmployee CustomerType = "employee"
)

// CustomerStatus represents the lifecycle state of a customer
type CustomerStatus string

const (
	CustomerStatusActive  CustomerStatus = "active"
	CustomerStatusDeleted CustomerStatus = "deleted"
	CustomerStatusVIP     CustomerStatus = "vip"
)

// SignupSource identifies the platform a record originated from
type SignupSource string

const (
	SourceAdmin     SignupSource = "admin"
	SourceLatepoint SignupSource = "latepoint"
	SourceSquare    SignupSource = "square"
	SourceAcuity    SignupSource = "acuity"
)

// Valid reports whether the source is one of the supported platforms
func (s SignupSource) Valid() bool {
	switch s {
	case SourceAdmin, SourceLatepoint, SourceSquare, SourceAcuity:
		return true
	}
	return false
}
