package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

// initializeSID initializes the shortid generator once
func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortCode returns an uppercase alphanumeric code of the requested
// length, suitable for human-readable document number suffixes.
func GenerateShortCode(length int) string {
	once.Do(initializeSID)

	var sb strings.Builder
	for sb.Len() < length {
		id, err := sidGenerator.Generate()
		if err != nil {
			return strings.Repeat("0", length)
		}
		for _, r := range strings.ToUpper(id) {
			if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				sb.WriteRune(r)
				if sb.Len() == length {
					break
				}
			}
		}
	}
	return sb.String()
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_CLIENT            = "cli"
	UUID_PREFIX_SERVICE           = "svc"
	UUID_PREFIX_INVOICE           = "inv"
	UUID_PREFIX_INVOICE_LINE_ITEM = "inv_line"
)
