package estimate

import (
	"fmt"
	"strings"
)

// ValidationResult lists every reason a save is refused
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Messages []string `json:"messages"`
}

// ValidateApiModelData checks a document before it is persisted: at least one
// vessel must be suitable and the detailed schedule may not contain a leg
// without a port name. All violations are reported, not just the first.
func ValidateApiModelData(doc AnalysisDocument) ValidationResult {
	var messages []string

	suitable := false
	for _, ship := range doc.AllShips {
		if ship.Suitable {
			suitable = true
			break
		}
	}
	if !suitable && doc.BestShipDetailed != nil && doc.BestShipDetailed.Suitable {
		suitable = true
	}
	if !suitable {
		messages = append(messages, "At least one vessel must be suitable for the cargo")
	}

	if doc.BestShipDetailed == nil {
		messages = append(messages, "No vessel has been selected for the estimate")
	} else {
		for i, leg := range doc.BestShipDetailed.PortCalls {
			if strings.TrimSpace(leg.PortName) == "" {
				messages = append(messages, fmt.Sprintf("Port call %d has no port name", i+1))
			}
		}
	}

	return ValidationResult{IsValid: len(messages) == 0, Messages: messages}
}
