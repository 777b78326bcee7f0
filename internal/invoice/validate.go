package invoice

import (
	"errors"
	"strings"

	"github.com/malick/facture-mcp/internal/models"
)

// Validation failures block preview and export before any output is
// produced. Each carries the user-facing French message.
var (
	ErrMissingFirstName = errors.New("le prénom du client est requis")
	ErrMissingLastName  = errors.New("le nom du client est requis")
	ErrMissingPhone     = errors.New("le téléphone du client est requis")
	ErrNoLineItems      = errors.New("au moins un article complet est requis")
)

// ValidateDraft checks the preconditions for assembling an invoice: client
// first name, last name and phone present, and at least one qualifying line
// item. Checks run in a fixed order and the first failure wins.
func ValidateDraft(client models.ClientInfo, items []models.LineItem) error {
	if strings.TrimSpace(client.FirstName) == "" {
		return ErrMissingFirstName
	}
	if strings.TrimSpace(client.LastName) == "" {
		return ErrMissingLastName
	}
	if strings.TrimSpace(client.Phone) == "" {
		return ErrMissingPhone
	}
	if len(Qualifying(items)) == 0 {
		return ErrNoLineItems
	}
	return nil
}
