package types

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity prefixes for generated identifiers. A prefixed ULID sorts by
// creation time, which the list endpoints rely on as a stable tiebreaker.
const (
	UUID_PREFIX_CUSTOMER     = "cust"
	UUID_PREFIX_PRODUCT      = "prod"
	UUID_PREFIX_SUBSCRIPTION = "subs"
	UUID_PREFIX_INVOICE      = "inv"
	UUID_PREFIX_LINE_ITEM    = "li"
	UUID_PREFIX_PAYMENT      = "pay"
	UUID_PREFIX_CREDIT_NOTE  = "cn"
	UUID_PREFIX_REQUEST      = "req"
)

// GenerateUUID returns a new ULID as a lowercase string.
func GenerateUUID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String())
}

// GenerateUUIDWithPrefix returns a new ULID prefixed with the entity tag,
// e.g. "inv_01hv9crnretxnham0c3gqq1p8c".
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
