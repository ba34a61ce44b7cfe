package nodes

import (
	"fmt"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

var ErrEmptyQuery = fmt.Errorf("%w: query is required", contractx.ErrValidation)

func errNilState(node string) error {
	return fmt.Errorf("%w: %s received nil graph state", contractx.ErrValidation, node)
}
