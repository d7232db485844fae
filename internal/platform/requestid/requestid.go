// Package requestid issues correlation identifiers attached to outbound
// requests against the execution service.
package requestid

import "github.com/google/uuid"

func New() string {
	return uuid.NewString()
}
