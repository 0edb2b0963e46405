package contacts

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"go.uber.org/zap"
)

// addressBookEntry mirrors one record of the optional address book file.
type addressBookEntry struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Directory answers known-contact lookups for the spam scorer's reputation
// discount. Lookups are by exact address, case-insensitive.
type Directory struct {
	addresses map[string]struct{}
	logger    *zap.Logger
}

// NewDirectory creates a directory from a list of contact addresses.
func NewDirectory(addresses []string, logger *zap.Logger) *Directory {
	d := &Directory{
		addresses: make(map[string]struct{}, len(addresses)),
		logger:    logger,
	}
	for _, addr := range addresses {
		d.add(addr)
	}

	if len(d.addresses) > 0 && logger != nil {
		logger.Info("Initialized contact directory", zap.Int("contacts", len(d.addresses)))
	}

	return d
}

// NewDirectoryFromFile creates a directory from a JSON address book file
// merged with the extra addresses. The file holds an array of
// {"email": ..., "name": ...} objects. An unreadable or malformed file is
// an error.
func NewDirectoryFromFile(path string, extra []string, logger *zap.Logger) (*Directory, error) {
	d := NewDirectory(extra, logger)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read address book: %w", err)
	}

	var entries []addressBookEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse address book %s: %w", path, err)
	}

	for _, entry := range entries {
		d.add(entry.Email)
	}

	if logger != nil {
		logger.Info("Loaded address book",
			zap.String("path", path),
			zap.Int("contacts", len(d.addresses)))
	}

	return d, nil
}

// IsKnownContact reports whether address belongs to a known contact. The
// address may be bare or in RFC 5322 "Name <addr>" form.
func (d *Directory) IsKnownContact(address string) bool {
	key := normalize(address)
	if key == "" {
		return false
	}
	_, ok := d.addresses[key]
	return ok
}

func (d *Directory) add(address string) {
	if key := normalize(address); key != "" {
		d.addresses[key] = struct{}{}
	}
}

func normalize(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}
	return strings.ToLower(address)
}
