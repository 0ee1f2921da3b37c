// Package notice extracts contract details from TenderNed notice XML.
package notice

import (
	"strings"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infralogger "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/logger"
)

// Element names in the notice document.
const (
	ObjectContractElement   = "OBJECT_CONTRACT"
	TitleElement            = "TITLE"
	ShortDescriptionElement = "SHORT_DESCR"
	ReferenceNumberElement  = "REFERENCE_NUMBER"
)

// Parser turns notice XML into a domain.Notice.
type Parser struct {
	log infralogger.Logger
}

// NewParser creates a Parser that logs extracted titles to log.
func NewParser(log infralogger.Logger) *Parser {
	return &Parser{log: log}
}

// Parse locates OBJECT_CONTRACT and its TITLE and returns the notice with the title's
// text content trimmed. Malformed XML yields a KindParse error; a missing
// OBJECT_CONTRACT or TITLE yields KindValidation wrapping ErrMissingObjectContract or
// ErrMissingTitle. No partial notice is returned on failure.
func (p *Parser) Parse(xmlText string) (*domain.Notice, error) {
	doc, err := Decode(strings.NewReader(xmlText))
	if err != nil {
		return nil, domain.NewParseError(err)
	}

	contract := doc.Find(ObjectContractElement)
	if contract == nil {
		return nil, domain.NewValidationError(domain.ErrMissingObjectContract)
	}

	title := contract.Find(TitleElement)
	if title == nil {
		return nil, domain.NewValidationError(domain.ErrMissingTitle)
	}

	n := &domain.Notice{
		Title:            strings.TrimSpace(title.Text()),
		ShortDescription: optionalText(contract, ShortDescriptionElement),
		ReferenceNumber:  optionalText(contract, ReferenceNumberElement),
	}

	p.log.Info("Contract title", infralogger.String("title", n.Title))

	return n, nil
}

func optionalText(parent *Element, name string) string {
	if el := parent.Find(name); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}
